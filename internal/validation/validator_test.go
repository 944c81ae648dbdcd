package validation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	ctx := context.Background()

	found := func(context.Context, string) (bool, error) { return true, nil }
	free := func(context.Context, string) (bool, error) { return false, nil }
	broken := func(context.Context, string) (bool, error) { return false, errors.New("store down") }

	r := Check(ctx, found, "1001", RadioIDMessages)
	assert.Equal(t, StatusInvalid, r.Status)
	assert.Equal(t, "Dit ID is al in gebruik", r.Message)

	r = Check(ctx, free, "1001", RadioIDMessages)
	assert.Equal(t, StatusValid, r.Status)
	assert.Equal(t, "ID is beschikbaar", r.Message)

	// A failed lookup blocks the value rather than waving it through.
	r = Check(ctx, broken, "1001", RadioIDMessages)
	assert.Equal(t, StatusInvalid, r.Status)
	assert.Equal(t, "Fout bij controleren", r.Message)

	r = Check(ctx, free, "SN-1", SerialMessages)
	assert.Equal(t, "Serienummer is beschikbaar", r.Message)
}

func TestNormalizeRadioID(t *testing.T) {
	assert.Equal(t, "1234", NormalizeRadioID("1234"))
	assert.Equal(t, "1234", NormalizeRadioID("12a3b4"))
	assert.Equal(t, "1234", NormalizeRadioID("123456"))
	assert.Equal(t, "12", NormalizeRadioID(" 1 2 "))
	assert.Equal(t, "", NormalizeRadioID("abc"))

	assert.True(t, AcceptRadioID("1234"))
	assert.False(t, AcceptRadioID("123"))
}

func TestNormalizeSerial(t *testing.T) {
	assert.Equal(t, "SN-001", NormalizeSerial("  sn-001 "))
	assert.True(t, AcceptSerial("SN-001"))
	assert.False(t, AcceptSerial(""))
}

func TestFieldValidatorDebounce(t *testing.T) {
	var lookups atomic.Int32
	v := NewFieldValidator(Config{
		Lookup: func(context.Context, string) (bool, error) {
			lookups.Add(1)
			return false, nil
		},
		Normalize: NormalizeRadioID,
		Accept:    AcceptRadioID,
		Messages:  RadioIDMessages,
		Quiet:     20 * time.Millisecond,
	})
	defer v.Close()

	// Keystrokes inside the quiet window supersede each other.
	v.Input("1")
	v.Input("10")
	v.Input("100")
	v.Input("1001")
	v.Input("1002")

	require.Eventually(t, func() bool {
		return v.State().Status == StatusValid
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(1), lookups.Load(), "only the final value is checked")
	assert.Equal(t, "ID is beschikbaar", v.State().Message)
}

func TestFieldValidatorIdleForShortInput(t *testing.T) {
	var lookups atomic.Int32
	v := NewFieldValidator(Config{
		Lookup: func(context.Context, string) (bool, error) {
			lookups.Add(1)
			return false, nil
		},
		Normalize: NormalizeRadioID,
		Accept:    AcceptRadioID,
		Messages:  RadioIDMessages,
		Quiet:     10 * time.Millisecond,
	})
	defer v.Close()

	normalized := v.Input("12x")
	assert.Equal(t, "12", normalized)
	assert.Equal(t, StatusIdle, v.State().Status)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), lookups.Load())
}

func TestFieldValidatorDiscardsStaleResult(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	v := NewFieldValidator(Config{
		Lookup: func(context.Context, string) (bool, error) {
			close(entered)
			<-release
			return true, nil
		},
		Normalize: NormalizeRadioID,
		Accept:    AcceptRadioID,
		Messages:  RadioIDMessages,
		Quiet:     time.Millisecond,
	})
	defer v.Close()

	v.Input("1001")
	<-entered

	// The input is cleared while the lookup is still in flight; its
	// in-use result must not overwrite the idle state.
	v.Input("")
	assert.Equal(t, StatusIdle, v.State().Status)

	close(release)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StatusIdle, v.State().Status)
}

func TestFieldValidatorNotify(t *testing.T) {
	updates := make(chan Result, 8)
	v := NewFieldValidator(Config{
		Lookup:    func(context.Context, string) (bool, error) { return true, nil },
		Normalize: NormalizeRadioID,
		Accept:    AcceptRadioID,
		Messages:  RadioIDMessages,
		Quiet:     time.Millisecond,
		Notify:    func(r Result) { updates <- r },
	})
	defer v.Close()

	v.Input("1001")

	var seen []Status
	deadline := time.After(time.Second)
	for len(seen) < 2 {
		select {
		case r := <-updates:
			seen = append(seen, r.Status)
		case <-deadline:
			t.Fatalf("timed out waiting for notifications, got %v", seen)
		}
	}
	assert.Equal(t, []Status{StatusChecking, StatusInvalid}, seen)
}

func TestFieldValidatorCloseCancelsPending(t *testing.T) {
	var lookups atomic.Int32
	v := NewFieldValidator(Config{
		Lookup: func(context.Context, string) (bool, error) {
			lookups.Add(1)
			return false, nil
		},
		Normalize: NormalizeRadioID,
		Accept:    AcceptRadioID,
		Messages:  RadioIDMessages,
		Quiet:     20 * time.Millisecond,
	})

	v.Input("1001")
	v.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), lookups.Load())
}
