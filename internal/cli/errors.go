package cli

import (
	"errors"
	"fmt"

	"phonebook-client/internal/phonebook"
)

// callError adds a connectivity hint to transport failures. Other errors
// pass through unchanged.
func callError(err error) error {
	var te *phonebook.TransportError
	if errors.As(err, &te) {
		return fmt.Errorf("%w (is the phone book server running at %s?)", err, te.Addr)
	}
	return err
}
