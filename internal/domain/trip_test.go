package domain

import (
	"errors"
	"testing"
	"time"
)

func TestTripTransitionTo(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		from    TripStatus
		to      TripStatus
		wantErr bool
	}{
		{from: TripStatusPending, to: TripStatusRunning},
		{from: TripStatusRunning, to: TripStatusCompleted},
		{from: TripStatusPending, to: TripStatusCancelled},
		{from: TripStatusRunning, to: TripStatusCancelled},

		{from: TripStatusPending, to: TripStatusCompleted, wantErr: true},
		{from: TripStatusCompleted, to: TripStatusRunning, wantErr: true},
		{from: TripStatusCompleted, to: TripStatusCancelled, wantErr: true},
		{from: TripStatusCancelled, to: TripStatusRunning, wantErr: true},
		{from: TripStatusCancelled, to: TripStatusCompleted, wantErr: true},
		{from: TripStatusRunning, to: TripStatusPending, wantErr: true},
		{from: TripStatusCompleted, to: TripStatusPending, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			trip := &Trip{ID: "trip-1", TruckID: "truck-1", DriverID: "driver-1", Status: tt.from}

			err := trip.TransitionTo(tt.to, now)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStateTransition) {
					t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
				}
				if trip.Status != tt.from {
					t.Errorf("status mutated on failed transition: %s", trip.Status)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if trip.Status != tt.to {
				t.Errorf("status = %s, want %s", trip.Status, tt.to)
			}
		})
	}
}

func TestTripActualEndSetOnceAtCompletion(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)

	trip := &Trip{ID: "trip-1", TruckID: "truck-1", DriverID: "driver-1", Status: TripStatusPending}

	if err := trip.TransitionTo(TripStatusRunning, start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if trip.ActualStart == nil || !trip.ActualStart.Equal(start) {
		t.Fatalf("ActualStart = %v, want %v", trip.ActualStart, start)
	}
	if trip.ActualEnd != nil {
		t.Fatal("ActualEnd set before completion")
	}

	if err := trip.TransitionTo(TripStatusCompleted, end); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if trip.ActualEnd == nil || !trip.ActualEnd.Equal(end) {
		t.Fatalf("ActualEnd = %v, want %v", trip.ActualEnd, end)
	}

	// A completed trip accepts no further transitions, so ActualEnd can
	// never be overwritten.
	if err := trip.TransitionTo(TripStatusCompleted, end.Add(time.Hour)); err == nil {
		t.Fatal("re-completion accepted")
	}
	if !trip.ActualEnd.Equal(end) {
		t.Errorf("ActualEnd overwritten: %v", trip.ActualEnd)
	}
}
