package xerrors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	// nil 错误应返回 nil
	if err := Wrap(nil, "context"); err != nil {
		t.Errorf("Wrap(nil) = %v，期望 nil", err)
	}

	base := errors.New("base error")
	wrapped := Wrap(base, "context")
	if wrapped == nil {
		t.Fatal("Wrap(err) = nil，期望非 nil")
	}
	if wrapped.Error() != "context: base error" {
		t.Errorf("Wrap(err).Error() = %q，期望 %q", wrapped.Error(), "context: base error")
	}

	// 应保留错误链
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is(wrapped, base) = false，期望 true")
	}
}

func TestWrapf(t *testing.T) {
	if err := Wrapf(nil, "worker %d", 3); err != nil {
		t.Errorf("Wrapf(nil) = %v，期望 nil", err)
	}

	base := errors.New("out of range")
	wrapped := Wrapf(base, "worker %d", 3)
	if wrapped.Error() != "worker 3: out of range" {
		t.Errorf("Wrapf(err).Error() = %q，期望 %q", wrapped.Error(), "worker 3: out of range")
	}
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is(wrapped, base) = false，期望 true")
	}
}

func TestWithCode(t *testing.T) {
	if err := WithCode(nil, "CODE"); err != nil {
		t.Errorf("WithCode(nil) = %v，期望 nil", err)
	}

	base := errors.New("boom")
	coded := WithCode(base, "worker_id_out_of_range")
	if GetCode(coded) != "worker_id_out_of_range" {
		t.Errorf("GetCode = %q，期望 %q", GetCode(coded), "worker_id_out_of_range")
	}
	if !errors.Is(coded, base) {
		t.Error("errors.Is(coded, base) = false，期望 true")
	}

	// 非 CodedError 链应返回空串
	if GetCode(base) != "" {
		t.Errorf("GetCode(base) = %q，期望空串", GetCode(base))
	}
}

func TestCombine(t *testing.T) {
	if err := Combine(nil, nil); err != nil {
		t.Errorf("Combine(nil, nil) = %v，期望 nil", err)
	}

	e1 := errors.New("first")
	if err := Combine(nil, e1); err != e1 {
		t.Errorf("Combine(nil, e1) = %v，期望 e1", err)
	}

	e2 := errors.New("second")
	combined := Combine(e1, e2)
	if !errors.Is(combined, e1) || !errors.Is(combined, e2) {
		t.Error("Combine 应保留所有错误的错误链")
	}

	var multi *MultiError
	if !errors.As(combined, &multi) {
		t.Fatal("Combine 多个错误应返回 *MultiError")
	}
	if len(multi.Errors) != 2 {
		t.Errorf("len(multi.Errors) = %d，期望 2", len(multi.Errors))
	}
}

func TestMust(t *testing.T) {
	if v := Must(42, nil); v != 42 {
		t.Errorf("Must(42, nil) = %d，期望 42", v)
	}

	defer func() {
		if recover() == nil {
			t.Error("Must 在 err 非 nil 时应 panic")
		}
	}()
	Must(0, errors.New("boom"))
}
