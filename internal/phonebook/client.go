package phonebook

import (
	"context"
	"strings"
	"time"

	"phonebook-client/internal/metrics"
	"phonebook-client/internal/model"
	"phonebook-client/internal/rpc"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const DefaultTimeout = 5 * time.Second

// Client issues phone book operations. It keeps no state between calls:
// every call dials the given address, performs exactly one exchange and
// closes the connection before returning.
type Client struct {
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Collector
	dialOpts []grpc.DialOption
}

type Option func(*Client)

// WithTimeout bounds each call when the caller's context has no deadline.
// Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// WithDialOptions appends options to every dial, after the defaults.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) { c.dialOpts = append(c.dialOpts, opts...) }
}

func New(opts ...Option) *Client {
	c := &Client{
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) AddRecord(ctx context.Context, addr string, e model.Entry) (bool, error) {
	req := &rpc.RecordRequest{
		Name:       e.Name,
		Surname:    e.Surname,
		Patronymic: e.Patronymic,
		Number:     e.Number,
		Note:       e.Note,
	}
	return c.mutate(ctx, rpc.MethodAddRecord, addr, func(ctx context.Context, stub *rpc.PhoneBookClient) (*rpc.CodeResponse, error) {
		return stub.AddRecord(ctx, req)
	})
}

func (c *Client) DeleteRecordByID(ctx context.Context, addr string, id uint64) (bool, error) {
	return c.mutate(ctx, rpc.MethodDeleteRecordByID, addr, func(ctx context.Context, stub *rpc.PhoneBookClient) (*rpc.CodeResponse, error) {
		return stub.DeleteRecordByID(ctx, &rpc.IDRequest{ID: id})
	})
}

func (c *Client) DeleteRecordByNumber(ctx context.Context, addr string, number string) (bool, error) {
	return c.mutate(ctx, rpc.MethodDeleteRecordByNumber, addr, func(ctx context.Context, stub *rpc.PhoneBookClient) (*rpc.CodeResponse, error) {
		return stub.DeleteRecordByNumber(ctx, &rpc.TextRequest{Value: number})
	})
}

func (c *Client) FindRecordByID(ctx context.Context, addr string, id uint64) (model.Result, error) {
	return c.findOne(ctx, rpc.MethodFindRecordByID, addr, &rpc.IDRequest{ID: id})
}

func (c *Client) FindRecordByNumber(ctx context.Context, addr string, number string) (model.Result, error) {
	return c.findOne(ctx, rpc.MethodFindRecordByNumber, addr, &rpc.TextRequest{Value: number})
}

func (c *Client) FindRecordsByName(ctx context.Context, addr string, name string) (model.Result, error) {
	return c.findMany(ctx, rpc.MethodFindRecordsByName, addr, name)
}

func (c *Client) FindRecordsBySurname(ctx context.Context, addr string, surname string) (model.Result, error) {
	return c.findMany(ctx, rpc.MethodFindRecordsBySurname, addr, surname)
}

func (c *Client) FindRecordsByPatronymic(ctx context.Context, addr string, patronymic string) (model.Result, error) {
	return c.findMany(ctx, rpc.MethodFindRecordsByPatronymic, addr, patronymic)
}

// FindRecordsByNote returns matches in the service's relevance order.
func (c *Client) FindRecordsByNote(ctx context.Context, addr string, query string) (model.Result, error) {
	return c.findMany(ctx, rpc.MethodFindRecordsByNote, addr, query)
}

func (c *Client) mutate(ctx context.Context, op, addr string, call func(context.Context, *rpc.PhoneBookClient) (*rpc.CodeResponse, error)) (bool, error) {
	var ok bool
	err := c.do(ctx, op, addr, func(ctx context.Context, stub *rpc.PhoneBookClient) (string, error) {
		resp, err := call(ctx, stub)
		if err != nil {
			return "", err
		}
		ok = resp.OK()
		if ok {
			return metrics.OutcomeOK, nil
		}
		return metrics.OutcomeRejected, nil
	})
	return ok, err
}

func (c *Client) findOne(ctx context.Context, op, addr string, req rpc.Message) (model.Result, error) {
	var res model.Result
	err := c.do(ctx, op, addr, func(ctx context.Context, stub *rpc.PhoneBookClient) (string, error) {
		resp, err := stub.FindRecord(ctx, op, req)
		if err != nil {
			return "", err
		}
		res = normalizeOne(resp)
		return resultOutcome(res), nil
	})
	if err != nil {
		return model.Absent(), err
	}
	return res, nil
}

func (c *Client) findMany(ctx context.Context, op, addr string, value string) (model.Result, error) {
	var res model.Result
	err := c.do(ctx, op, addr, func(ctx context.Context, stub *rpc.PhoneBookClient) (string, error) {
		stream, err := stub.FindRecords(ctx, op, &rpc.TextRequest{Value: value})
		if err != nil {
			return "", err
		}
		res, err = collect(stream)
		if err != nil {
			return "", err
		}
		return resultOutcome(res), nil
	})
	if err != nil {
		return model.Absent(), err
	}
	return res, nil
}

func resultOutcome(r model.Result) string {
	if r.IsAbsent() {
		return metrics.OutcomeAbsent
	}
	return metrics.OutcomeFound
}

// do runs one exchange on a fresh connection. The connection is closed on
// every path before do returns.
func (c *Client) do(ctx context.Context, op, addr string, exchange func(context.Context, *rpc.PhoneBookClient) (string, error)) error {
	done := c.metrics.Start(op)
	start := time.Now()

	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.dial(addr)
	if err != nil {
		done(metrics.OutcomeError)
		return c.transportError(op, addr, err, start)
	}
	defer conn.Close()

	outcome, err := exchange(ctx, rpc.NewPhoneBookClient(conn))
	if err != nil {
		done(metrics.OutcomeError)
		return c.transportError(op, addr, err, start)
	}
	done(outcome)
	c.logger.Debug("phone book call",
		zap.String("op", op),
		zap.String("addr", addr),
		zap.String("outcome", outcome),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (c *Client) dial(addr string) (*grpc.ClientConn, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errEmptyAddress
	}
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(rpc.Codec{})),
	}
	opts = append(opts, c.dialOpts...)
	return grpc.NewClient(addr, opts...)
}

func (c *Client) transportError(op, addr string, err error, start time.Time) error {
	te := &TransportError{Op: op, Addr: addr, Code: status.Code(err), Err: err}
	c.logger.Warn("phone book call failed",
		zap.String("op", op),
		zap.String("addr", addr),
		zap.Stringer("code", te.Code),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)
	return te
}
