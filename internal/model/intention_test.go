package model

import "testing"

func TestIntention_String(t *testing.T) {
	tests := []struct {
		intention Intention
		want      string
	}{
		{IntentionIdle, "IDLE"},
		{IntentionChase, "CHASE"},
		{IntentionAttack, "ATTACK"},
		{IntentionDead, "DEAD"},
		{Intention(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.intention.String(); got != tt.want {
			t.Errorf("Intention(%d).String() = %q, want %q", tt.intention, got, tt.want)
		}
	}
}
