package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("disk full")
	err := Wrap(CodeDependency, cause, "commit failed")

	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected cause to survive wrapping")
	}
}

func TestAsThroughChain(t *testing.T) {
	t.Parallel()

	inner := New(CodeInsufficientStock, "stock would go negative")
	outer := fmt.Errorf("add line: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error through fmt wrapping")
	}
	if typed.Code() != CodeInsufficientStock {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
	if !HasCode(outer, CodeInsufficientStock) {
		t.Fatal("HasCode should match through the chain")
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes must map to internal, got %d", meta.HTTPStatus)
	}
}

func TestMetadataRetryableOnlyForTransient(t *testing.T) {
	t.Parallel()

	for _, code := range []Code{CodeValidation, CodeNotFound, CodeStateConflict, CodeInsufficientStock} {
		if MetadataFor(code).Retryable {
			t.Fatalf("%s must not be retryable", code)
		}
	}
	for _, code := range []Code{CodeDependency, CodeConflict, CodeInternal} {
		if !MetadataFor(code).Retryable {
			t.Fatalf("%s should be retryable", code)
		}
	}
}

func TestNilReceiverSafety(t *testing.T) {
	t.Parallel()

	var err *Error
	if err.Code() != CodeInternal {
		t.Fatal("nil error should report internal code")
	}
	if err.WithDetails("x") != nil {
		t.Fatal("nil error should stay nil")
	}
}
