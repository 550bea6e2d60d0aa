package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p SquarePayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return errors.New("square coordinates cannot be negative")
	}
	return nil
}

func (p MovePayload) Validate() error {
	if p.FromX < 0 || p.FromY < 0 || p.ToX < 0 || p.ToY < 0 {
		return errors.New("move coordinates cannot be negative")
	}
	if p.FromX == p.ToX && p.FromY == p.ToY {
		return errors.New("move must change the square")
	}
	return nil
}

func (p NewGamePayload) Validate() error {
	if p.Level < 0 {
		return errors.New("level cannot be negative")
	}
	switch p.Behavior {
	case "", "aggressive", "defensive", "balanced":
		return nil
	}
	return errors.New("unknown bot behavior")
}

func (p SlotPayload) Validate() error {
	if p.Slot < 0 {
		return errors.New("slot cannot be negative")
	}
	return nil
}
