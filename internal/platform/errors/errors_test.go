package errors_test

import (
	stderrs "errors"
	"net/http"
	"testing"

	perr "ghsummary/internal/platform/errors"
)

func TestCodeOfAndIsCode(t *testing.T) {
	err := perr.NotFoundf("report for %d missing", 2024)
	if perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("CodeOf = %v", perr.CodeOf(err))
	}
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("IsCode should match")
	}
	if perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("IsCode must not match a different code")
	}
}

func TestWrapPreservesRoot(t *testing.T) {
	cause := stderrs.New("socket closed")
	err := perr.Wrapf(cause, perr.ErrorCodeUnavailable, "github transport failed")
	if perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("wrapped code lost: %v", perr.CodeOf(err))
	}
	if perr.Root(err) != cause {
		t.Fatalf("Root should unwrap to the cause")
	}
	if !stderrs.Is(err, cause) {
		t.Fatalf("errors.Is should see through the wrap")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{perr.NotFoundf("x"), http.StatusNotFound},
		{perr.InvalidArgf("x"), http.StatusUnprocessableEntity},
		{perr.JSONErrf("x"), http.StatusBadRequest},
		{perr.Unauthorizedf("x"), http.StatusUnauthorized},
		{perr.RateLimitedf("x"), http.StatusTooManyRequests},
		{perr.Unavailablef("x"), http.StatusServiceUnavailable},
		{perr.RemoteQueryf("x"), http.StatusBadGateway},
		{perr.DBf("x"), http.StatusInternalServerError},
		{stderrs.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := perr.HTTPStatus(c.err); got != c.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestWireFrom(t *testing.T) {
	w := perr.WireFrom(perr.RateLimitedf("slow down"))
	if w.Code != perr.ErrorCodeTooManyRequests || w.Message == "" {
		t.Fatalf("bad wire: %+v", w)
	}
}

func TestWithField(t *testing.T) {
	err := perr.WithField(perr.InvalidArgf("year out of range"), "year")
	e, ok := perr.As(err)
	if !ok || e.Field() != "year" {
		t.Fatalf("field not carried: %+v ok=%v", e, ok)
	}
}
