package ctrlbus

import "testing"

func TestDispatchLevels(t *testing.T) {
	c := New()
	if c.Trigger() || c.Arm() || c.Start() || c.DCM() {
		t.Fatalf("expected all levels deasserted initially")
	}

	c.Dispatch(OpTriggerOn)
	c.Dispatch(OpArmOn)
	c.Dispatch(OpStartOn)
	c.Dispatch(OpDCMOn)
	if !c.Trigger() || !c.Arm() || !c.Start() || !c.DCM() {
		t.Fatalf("expected all levels asserted after *On opcodes")
	}

	c.Dispatch(OpTriggerOff)
	if c.Trigger() {
		t.Fatalf("expected trigger deasserted after TriggerOff")
	}
	if !c.Arm() || !c.Start() || !c.DCM() {
		t.Fatalf("TriggerOff must not affect other levels")
	}
}

func TestUnknownOpcodeIgnored(t *testing.T) {
	c := New()
	c.Dispatch(OpArmOn)
	c.Dispatch(0x7F) // not a defined opcode
	if !c.Arm() {
		t.Fatalf("unknown opcode must not disturb existing levels")
	}
}

func TestResetPulseDuration(t *testing.T) {
	c := New()
	c.Dispatch(OpArmOn)
	c.Dispatch(OpStartOn)
	c.Dispatch(OpTriggerOn)
	c.Dispatch(OpReset)

	if c.Arm() || c.Start() || c.Trigger() {
		t.Fatalf("RESET must clear levels immediately")
	}
	if !c.ResetAsserted() {
		t.Fatalf("expected reset asserted immediately after RESET opcode")
	}

	for i := 0; i < ResetPulseCycles-1; i++ {
		c.Tick()
		if !c.ResetAsserted() {
			t.Fatalf("reset deasserted early at cycle %d, want asserted through cycle %d", i, ResetPulseCycles-1)
		}
	}
	c.Tick()
	if c.ResetAsserted() {
		t.Fatalf("reset still asserted after %d cycles", ResetPulseCycles)
	}
}

// TestResetIdempotence covers spec.md §8's idempotence property: issuing
// RESET n times in succession behaves exactly like issuing it once.
func TestResetIdempotence(t *testing.T) {
	once := New()
	once.Dispatch(OpArmOn)
	once.Dispatch(OpReset)
	for i := 0; i < ResetPulseCycles; i++ {
		once.Tick()
	}

	repeated := New()
	repeated.Dispatch(OpArmOn)
	for i := 0; i < 5; i++ {
		repeated.Dispatch(OpReset)
	}
	for i := 0; i < ResetPulseCycles; i++ {
		repeated.Tick()
	}

	if once.Arm() != repeated.Arm() || once.Start() != repeated.Start() || once.Trigger() != repeated.Trigger() {
		t.Fatalf("repeated RESET diverged from single RESET")
	}
	if once.ResetAsserted() != repeated.ResetAsserted() {
		t.Fatalf("repeated RESET left reset line in a different state than a single RESET")
	}
}

func TestTwoFlopSyncLatency(t *testing.T) {
	var s TwoFlopSync
	if s.Sample(true) {
		t.Fatalf("cycle 0: expected false before the pipeline fills")
	}
	if s.Sample(true) {
		t.Fatalf("cycle 1: expected false before the pipeline fills")
	}
	if !s.Sample(true) {
		t.Fatalf("cycle 2: expected resynchronized true to appear")
	}
}
