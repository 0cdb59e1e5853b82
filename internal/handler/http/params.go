package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/KartikVerma96/paregrose/pkg/httputil"
)

// query reads optional typed query parameters, remembering the first
// parse failure.
type query struct {
	values url.Values
	msg    string
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query()}
}

func (q *query) str(name string) *string {
	v := strings.TrimSpace(q.values.Get(name))
	if v == "" {
		return nil
	}
	return &v
}

func (q *query) int(name string) int {
	v := q.values.Get(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		q.fail(name, "a non-negative integer")
		return 0
	}
	return n
}

func (q *query) int64(name string) *int64 {
	v := q.values.Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		q.fail(name, "a non-negative integer")
		return nil
	}
	return &n
}

func (q *query) bool(name string) *bool {
	v := q.values.Get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.fail(name, "true or false")
		return nil
	}
	return &b
}

func (q *query) uuid(name string) *string {
	v := q.values.Get(name)
	if v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		q.fail(name, "a UUID")
		return nil
	}
	s := id.String()
	return &s
}

func (q *query) fail(name, want string) {
	if q.msg == "" {
		q.msg = fmt.Sprintf("%s must be %s", name, want)
	}
}

// invalid writes a 400 for the first bad parameter, if any.
func (q *query) invalid(w http.ResponseWriter, r *http.Request) bool {
	if q.msg == "" {
		return false
	}
	httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_PARAMETER", q.msg)
	return true
}

// pathID returns the canonical form of a UUID path parameter, writing a 400
// when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, name))
	if !ok {
		return "", false
	}
	return id.String(), true
}
