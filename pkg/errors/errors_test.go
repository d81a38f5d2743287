package errors

import (
	"errors"
	"testing"
)

var (
	testCode  = MustNewCode("test.code")
	otherCode = MustNewCode("test.other")
)

func TestNew(t *testing.T) {
	err := New(CommonInternal, "boom")

	if err.Message != "boom" {
		t.Errorf("Expected message 'boom', got '%s'", err.Message)
	}
	if err.Code.String() != "common.internal" {
		t.Errorf("Expected code 'common.internal', got '%s'", err.Code.String())
	}
	if err.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(testCode, "count is %d", 3)
	if err.Message != "count is 3" {
		t.Errorf("Expected formatted message, got '%s'", err.Message)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(testCode, cause, "wrapper")

	if err.Cause != cause {
		t.Error("Expected cause to be preserved")
	}
	if err.Error() != "wrapper: underlying" {
		t.Errorf("Unexpected Error() output: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestAddContext(t *testing.T) {
	err := New(testCode, "msg").AddContext("column", "full_name").AddContext("row", "7")

	if err.Context["column"] != "full_name" {
		t.Errorf("Expected context column=full_name, got '%s'", err.Context["column"])
	}
	if err.Context["row"] != "7" {
		t.Errorf("Expected context row=7, got '%s'", err.Context["row"])
	}
}

func TestHasCode(t *testing.T) {
	inner := New(testCode, "inner")
	outer := Wrap(otherCode, inner, "outer")

	if !HasCode(outer, otherCode) {
		t.Error("Expected HasCode to match the outer code")
	}
	if !HasCode(outer, testCode) {
		t.Error("Expected HasCode to walk the cause chain")
	}
	if HasCode(outer, CommonNotFound) {
		t.Error("Did not expect HasCode to match an unrelated code")
	}
	if HasCode(errors.New("plain"), testCode) {
		t.Error("Plain errors carry no code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(testCode, "x")); !got.Equals(testCode) {
		t.Errorf("Expected %s, got %s", testCode, got)
	}
	if got := GetCode(errors.New("plain")); !got.Equals(CommonInternal) {
		t.Errorf("Expected common.internal for plain errors, got %s", got)
	}
}
