package codec

import (
	"errors"
	"testing"

	"github.com/ogfnsi/nsa-core/pkg/nsatype"
)

// fakeCodec is a minimal Codec that treats data as the literal action name,
// enough to exercise Registry without a real wire format.
type fakeCodec struct {
	decodeErr error
}

func (f *fakeCodec) Encode(kind string, payload any) ([]byte, error) {
	return []byte(kind), nil
}

func (f *fakeCodec) Decode(data []byte) (string, nsatype.Header, any, error) {
	if f.decodeErr != nil {
		return "", nsatype.Header{}, nil, f.decodeErr
	}
	return string(data), nsatype.Header{}, nil, nil
}

func TestRegistryDispatchInvokesHandler(t *testing.T) {
	r := NewRegistry(&fakeCodec{})
	called := false
	r.Register(ActionReserveConfirmed, func(header nsatype.Header, payload any) ([]byte, error) {
		called = true
		return []byte("ack"), nil
	})

	out, err := r.Dispatch(ActionReserveConfirmed, []byte(ActionReserveConfirmed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected handler to be invoked")
	}
	if string(out) != "ack" {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestRegistryDispatchUnregisteredAction(t *testing.T) {
	r := NewRegistry(&fakeCodec{})
	if _, err := r.Dispatch(ActionReserveFailed, []byte(ActionReserveFailed)); err == nil {
		t.Fatal("expected error for unregistered action")
	}
}

func TestRegistryDispatchDecodeError(t *testing.T) {
	r := NewRegistry(&fakeCodec{decodeErr: errors.New("malformed xml")})
	r.Register(ActionReserve, func(header nsatype.Header, payload any) ([]byte, error) {
		t.Fatal("handler should not be invoked when decode fails")
		return nil, nil
	})
	if _, err := r.Dispatch(ActionReserve, []byte("garbage")); err == nil {
		t.Fatal("expected decode error to propagate")
	}
}

func TestRegistryDispatchMismatchedAction(t *testing.T) {
	r := NewRegistry(&fakeCodec{})
	r.Register(ActionReserve, func(header nsatype.Header, payload any) ([]byte, error) {
		return nil, nil
	})
	if _, err := r.Dispatch(ActionReserve, []byte(ActionTerminate)); err == nil {
		t.Fatal("expected error when decoded action does not match dispatched action")
	}
}

func TestRegistryReRegisterReplacesHandler(t *testing.T) {
	r := NewRegistry(&fakeCodec{})
	r.Register(ActionReserve, func(header nsatype.Header, payload any) ([]byte, error) {
		return []byte("first"), nil
	})
	r.Register(ActionReserve, func(header nsatype.Header, payload any) ([]byte, error) {
		return []byte("second"), nil
	})
	out, err := r.Dispatch(ActionReserve, []byte(ActionReserve))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "second" {
		t.Errorf("expected second registration to win, got %s", out)
	}
}
