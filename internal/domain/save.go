package domain

// SavedPiece - срез фигуры для сохранения между уровнями.
// Боевое состояние (оглушение, измотанность, тень) намеренно
// не сохраняется: на новый уровень фигура выходит свежей.
type SavedPiece struct {
	ID            string    `json:"id"`
	Type          PieceType `json:"type"`
	Color         Color     `json:"color"`
	Equip         Equipment `json:"equip,omitempty"`
	OriginalType  PieceType `json:"originalType,omitempty"`
	Name          string    `json:"name,omitempty"`
	Kills         int       `json:"kills"`
	Preconfigured bool      `json:"preconfigured,omitempty"`
	Speech        []string  `json:"speech,omitempty"`
}

// ToSaved снимает с фигуры сохраняемый срез.
func (p *Piece) ToSaved() SavedPiece {
	return SavedPiece{
		ID:            p.ID,
		Type:          p.Type,
		Color:         p.Color,
		Equip:         p.Equip,
		OriginalType:  p.OriginalType,
		Name:          p.Name,
		Kills:         p.Kills,
		Preconfigured: p.Preconfigured,
		Speech:        append([]string(nil), p.Speech...),
	}
}

// Restore восстанавливает фигуру из сохраненного среза.
func (s SavedPiece) Restore() *Piece {
	return &Piece{
		ID:            s.ID,
		Type:          s.Type,
		Color:         s.Color,
		Equip:         s.Equip,
		OriginalType:  s.OriginalType,
		Name:          s.Name,
		Kills:         s.Kills,
		Preconfigured: s.Preconfigured,
		Speech:        append([]string(nil), s.Speech...),
	}
}
