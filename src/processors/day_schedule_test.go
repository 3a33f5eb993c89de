package processors

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.October, 19, hour, minute, 0, 0, time.UTC)
}

func TestLocateBlock(t *testing.T) {
	cur := LocateBlock(DefaultSchedule, at(9, 0))
	if cur.Block == nil || cur.Block.ID != "foco" {
		t.Fatalf("expected the foco block, got %+v", cur.Block)
	}
	if cur.MinutesLeft != 150 {
		t.Errorf("expected 150 minutes left, got %d", cur.MinutesLeft)
	}
	if cur.Next == nil || cur.Next.ID != "respostas" {
		t.Errorf("expected respostas next, got %+v", cur.Next)
	}

	lunch := LocateBlock(DefaultSchedule, at(12, 30))
	if lunch.Block != nil {
		t.Errorf("expected no block at lunch, got %s", lunch.Block.ID)
	}
	if lunch.Next == nil || lunch.Next.ID != "reunioes" {
		t.Errorf("expected reunioes next, got %+v", lunch.Next)
	}

	evening := LocateBlock(DefaultSchedule, at(19, 0))
	if evening.Block != nil || evening.Next != nil {
		t.Errorf("expected nothing after the day ends, got %+v", evening)
	}
}

func TestLocateBlockBoundaries(t *testing.T) {
	if cur := LocateBlock(DefaultSchedule, at(8, 30)); cur.Block == nil || cur.Block.ID != "foco" {
		t.Errorf("expected a block to start at its start time, got %+v", cur.Block)
	}
	if cur := LocateBlock(DefaultSchedule, at(17, 59)); cur.Block == nil || cur.Block.ID != "fechamento" || cur.MinutesLeft != 1 {
		t.Errorf("expected fechamento with 1 minute left, got %+v", cur)
	}
}
