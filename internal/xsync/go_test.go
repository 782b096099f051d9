package xsync

import (
	"errors"
	"strings"
	"testing"
)

func TestGoRecover(t *testing.T) {
	t.Parallel()

	errs := Go(func() error {
		panic("lasciate ogne speranza")
	})

	err := <-errs
	if err == nil || !strings.Contains(err.Error(), "lasciate") {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestGoError(t *testing.T) {
	t.Parallel()

	exp := errors.New("done")
	errs := Go(func() error {
		return exp
	})

	if err := <-errs; !errors.Is(err, exp) {
		t.Fatalf("unexpected err: %v", err)
	}
}
