// Package phonebooktest provides an in-memory phone book service for tests.
//
// The service follows the contract the client relies on: ids start at 1 and
// are never reused, numbers are unique among live records, name/surname/
// patronymic lookups return matches in id order and note lookups are ranked
// by term-frequency weighting.
package phonebooktest

import (
	"context"
	"math"
	"net"
	"sort"
	"strings"
	"sync"
	"testing"

	"phonebook-client/internal/model"
	"phonebook-client/internal/rpc"

	"google.golang.org/grpc"
)

type Server struct {
	Addr string

	srv *grpc.Server
	lis net.Listener

	mu       sync.Mutex
	records  map[uint64]model.Record
	byNumber map[string]uint64
	lastID   uint64
	calls    map[string]int
}

// Start serves a fresh, empty phone book on a loopback port. The server is
// stopped when the test finishes.
func Start(t testing.TB) *Server {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := newServer(lis)
	t.Cleanup(s.Stop)
	return s
}

func newServer(lis net.Listener) *Server {
	s := &Server{
		Addr:     lis.Addr().String(),
		lis:      lis,
		records:  map[uint64]model.Record{},
		byNumber: map[string]uint64{},
		calls:    map[string]int{},
	}
	s.srv = grpc.NewServer(
		grpc.ForceServerCodec(rpc.Codec{}),
		grpc.UnaryInterceptor(func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			s.countCall(info.FullMethod)
			return handler(ctx, req)
		}),
		grpc.StreamInterceptor(func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
			s.countCall(info.FullMethod)
			return handler(srv, ss)
		}),
	)
	rpc.RegisterPhoneBookServer(s.srv, &service{s: s})
	go func() { _ = s.srv.Serve(lis) }()
	return s
}

func (s *Server) Stop() { s.srv.Stop() }

// Len returns the number of live records.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// LastID returns the highest id issued so far.
func (s *Server) LastID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastID
}

// Calls returns how many requests reached method (e.g. rpc.MethodAddRecord).
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[rpc.FullMethod(method)]
}

// TotalCalls returns how many requests reached the server.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Seed adds entries directly, bypassing the RPC surface, and returns the
// ids assigned. Entries with a duplicate number get id 0.
func (s *Server) Seed(entries ...model.Entry) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint64, len(entries))
	for i, e := range entries {
		ids[i] = s.addLocked(e)
	}
	return ids
}

func (s *Server) countCall(method string) {
	s.mu.Lock()
	s.calls[method]++
	s.mu.Unlock()
}

func (s *Server) addLocked(e model.Entry) uint64 {
	if _, ok := s.byNumber[e.Number]; ok {
		return 0
	}
	s.lastID++
	id := s.lastID
	s.records[id] = model.Record{ID: id, Entry: e}
	s.byNumber[e.Number] = id
	return id
}

func (s *Server) deleteLocked(id uint64) bool {
	r, ok := s.records[id]
	if !ok {
		return false
	}
	delete(s.records, id)
	delete(s.byNumber, r.Number)
	return true
}

func (s *Server) sortedLocked(match func(model.Record) bool) []model.Record {
	var out []model.Record
	for _, r := range s.records {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// rankByNoteLocked scores every record sharing at least one word with query
// by sum(tf * idf) and orders by descending score, then by id.
func (s *Server) rankByNoteLocked(query string) []model.Record {
	words := uniqueWords(query)
	if len(words) == 0 || len(s.records) == 0 {
		return nil
	}

	docs := make(map[uint64][]string, len(s.records))
	df := map[string]int{}
	for id, r := range s.records {
		ws := strings.Fields(r.Note)
		docs[id] = ws
		for _, w := range uniqueWords(r.Note) {
			df[w]++
		}
	}

	score := map[uint64]float64{}
	for _, w := range words {
		if df[w] == 0 {
			continue
		}
		idf := math.Log(float64(len(s.records)) / float64(df[w]))
		for id, ws := range docs {
			n := 0
			for _, x := range ws {
				if x == w {
					n++
				}
			}
			if n == 0 {
				continue
			}
			score[id] += float64(n) / float64(len(ws)) * idf
		}
	}

	out := make([]model.Record, 0, len(score))
	for id := range score {
		out = append(out, s.records[id])
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := score[out[i].ID], score[out[j].ID]
		if si != sj {
			return si > sj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func uniqueWords(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range strings.Fields(s) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func toResponse(r model.Record) *rpc.RecordResponse {
	return &rpc.RecordResponse{
		ID:         r.ID,
		Name:       r.Name,
		Surname:    r.Surname,
		Patronymic: r.Patronymic,
		Number:     r.Number,
		Note:       r.Note,
	}
}

func code(ok bool) *rpc.CodeResponse {
	if ok {
		return &rpc.CodeResponse{Code: 1}
	}
	return &rpc.CodeResponse{}
}

type service struct {
	s *Server
}

func (v *service) AddRecord(_ context.Context, req *rpc.RecordRequest) (*rpc.CodeResponse, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	id := v.s.addLocked(model.Entry{
		Name:       req.Name,
		Surname:    req.Surname,
		Patronymic: req.Patronymic,
		Number:     req.Number,
		Note:       req.Note,
	})
	return code(id != 0), nil
}

func (v *service) DeleteRecordById(_ context.Context, req *rpc.IDRequest) (*rpc.CodeResponse, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return code(v.s.deleteLocked(req.ID)), nil
}

func (v *service) DeleteRecordByNumber(_ context.Context, req *rpc.TextRequest) (*rpc.CodeResponse, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	id, ok := v.s.byNumber[req.Value]
	if !ok {
		return code(false), nil
	}
	return code(v.s.deleteLocked(id)), nil
}

func (v *service) FindRecordById(_ context.Context, req *rpc.IDRequest) (*rpc.RecordResponse, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	r, ok := v.s.records[req.ID]
	if !ok {
		return &rpc.RecordResponse{}, nil
	}
	return toResponse(r), nil
}

func (v *service) FindRecordByNumber(_ context.Context, req *rpc.TextRequest) (*rpc.RecordResponse, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	id, ok := v.s.byNumber[req.Value]
	if !ok {
		return &rpc.RecordResponse{}, nil
	}
	return toResponse(v.s.records[id]), nil
}

func (v *service) FindRecordsByName(req *rpc.TextRequest, out rpc.RecordSender) error {
	return v.stream(out, func(s *Server) []model.Record {
		return s.sortedLocked(func(r model.Record) bool { return r.Name == req.Value })
	})
}

func (v *service) FindRecordsBySurname(req *rpc.TextRequest, out rpc.RecordSender) error {
	return v.stream(out, func(s *Server) []model.Record {
		return s.sortedLocked(func(r model.Record) bool { return r.Surname == req.Value })
	})
}

func (v *service) FindRecordsByPatronymic(req *rpc.TextRequest, out rpc.RecordSender) error {
	return v.stream(out, func(s *Server) []model.Record {
		return s.sortedLocked(func(r model.Record) bool { return r.Patronymic == req.Value })
	})
}

func (v *service) FindRecordsByNote(req *rpc.TextRequest, out rpc.RecordSender) error {
	return v.stream(out, func(s *Server) []model.Record {
		return s.rankByNoteLocked(req.Value)
	})
}

func (v *service) stream(out rpc.RecordSender, query func(*Server) []model.Record) error {
	v.s.mu.Lock()
	records := query(v.s)
	v.s.mu.Unlock()

	for _, r := range records {
		if err := out.Send(toResponse(r)); err != nil {
			return err
		}
	}
	return nil
}
