package models

import "testing"

func TestInterviewStatusTransitions(t *testing.T) {
	tests := []struct {
		from InterviewStatus
		to   InterviewStatus
		want bool
	}{
		{InterviewStatusNone, InterviewStatusEligible, true},
		{InterviewStatusNone, InterviewStatusRejected, true},
		{InterviewStatusNone, InterviewStatusCompleted, false},
		{InterviewStatusNone, InterviewStatusNone, false},
		{InterviewStatusEligible, InterviewStatusCompleted, true},
		{InterviewStatusEligible, InterviewStatusRejected, false},
		{InterviewStatusEligible, InterviewStatusNone, false},
		{InterviewStatusRejected, InterviewStatusEligible, false},
		{InterviewStatusRejected, InterviewStatusCompleted, false},
		{InterviewStatusCompleted, InterviewStatusEligible, false},
		{InterviewStatusCompleted, InterviewStatusNone, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestJobTypeIsValid(t *testing.T) {
	for _, valid := range []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship} {
		if !valid.IsValid() {
			t.Errorf("%s should be valid", valid)
		}
	}
	for _, invalid := range []JobType{"", "full-time", "Freelance"} {
		if invalid.IsValid() {
			t.Errorf("%q should be invalid", invalid)
		}
	}
}
