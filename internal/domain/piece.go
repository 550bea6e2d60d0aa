package domain

import (
	"github.com/google/uuid"
)

// Piece - фигура на доске.
// Указатель на Piece живет в одной-единственной клетке доски; смерть
// фигуры - это удаление указателя из клетки. Дальше объект существует
// только в журнале ходов.
type Piece struct {
	ID    string    `json:"id"`
	Type  PieceType `json:"type"` // отображаемый тип (под маскировкой - пешка)
	Color Color     `json:"color"`

	// Equip - экипированный предмет (не больше одного).
	Equip Equipment `json:"equip,omitempty"`

	// OriginalType - истинный тип фигуры под маскировкой.
	// Заполнен тогда и только тогда, когда надета маскировка.
	OriginalType PieceType `json:"originalType,omitempty"`

	// Name - сюжетное имя ("Безумный герцог"). Пусто у рядовых фигур.
	Name string `json:"name,omitempty"`

	// Kills - счетчик побед. С VeteranKills фигура - ветеран
	// и бросает два кубика вместо одного.
	Kills int `json:"kills"`

	// Stun - сколько ходов фигура оглушена (не ходит, в бою бросает 1).
	Stun int `json:"stun,omitempty"`

	// Exhausted - "выдохлась": трижды подряд металась между двумя
	// клетками. Работает как оглушение, но клиент рисует другой значок.
	Exhausted bool `json:"exhausted,omitempty"`

	// Shadow - чисто косметический счетчик "тени", на игру не влияет.
	Shadow int `json:"shadow,omitempty"`

	// Preconfigured - фигура расставлена сюжетом, а не генератором.
	Preconfigured bool `json:"preconfigured,omitempty"`

	// Speech - реплики для боя (выводятся в лог).
	Speech []string `json:"speech,omitempty"`
}

// NewPiece создает рядовую фигуру с новым ID.
func NewPiece(t PieceType, c Color) *Piece {
	return &Piece{
		ID:    uuid.NewString(),
		Type:  t,
		Color: c,
	}
}

// SetEquip надевает предмет, соблюдая инварианты каталога.
// Король не может носить маскировку; маскировка прячет истинный тип
// в OriginalType и показывает пешку.
func (p *Piece) SetEquip(e Equipment) bool {
	if e == Disguise {
		if p.Type == King || p.TrueType() == King {
			return false
		}
		p.OriginalType = p.Type
		p.Type = Pawn
	}
	p.Equip = e
	return true
}

// TrueType - истинный тип фигуры (под маскировкой отличается от Type).
func (p *Piece) TrueType() PieceType {
	if p.Equip == Disguise && p.OriginalType != "" {
		return p.OriginalType
	}
	return p.Type
}

// RevealDisguise снимает маскировку: фигура возвращает истинный тип.
// Это явный выбор игрока, маскировка не спадает сама.
func (p *Piece) RevealDisguise() {
	if p.Equip != Disguise {
		return
	}
	if p.OriginalType != "" {
		p.Type = p.OriginalType
	}
	p.OriginalType = ""
	p.Equip = NoEquip
}

// Veteran - пять побед дают постоянное преимущество на кубиках.
func (p *Piece) Veteran() bool {
	return p.Kills >= VeteranKills
}

// Incapacitated - фигура не может действовать (оглушение или измотанность).
func (p *Piece) Incapacitated() bool {
	return p.Stun > 0 || p.Exhausted
}

// ConsumeEquip снимает предмет после разового использования (копье, лук, посох).
func (p *Piece) ConsumeEquip() {
	p.Equip = NoEquip
}

// Clone возвращает глубокую копию фигуры (для симуляций бота).
func (p *Piece) Clone() *Piece {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Speech != nil {
		cp.Speech = append([]string(nil), p.Speech...)
	}
	return &cp
}
