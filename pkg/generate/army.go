// Package generate собирает стартовое состояние уровня: армии по
// бюджету золота и рельеф с препятствиями. Запускается один раз на
// уровень, вся случайность - из переданного генератора.
package generate

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/logger"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/rng"

	"github.com/sirupsen/logrus"
)

// ArmyConfig - входные параметры сборщика армии.
type ArmyConfig struct {
	Color domain.Color

	// Gold - бюджет на фигуры (король бесплатный, он есть всегда).
	Gold int

	// PawnShare - доля бюджета, зарезервированная под пешки заранее.
	// 0 - пешки покупаются на остаток после тяжелых фигур.
	PawnShare float64

	// EquipGold - отдельный бюджет на экипировку.
	EquipGold int

	// AllowedTypes - какие типы вообще разрешены на этом уровне.
	// Пустой список = разрешены все.
	AllowedTypes []domain.PieceType

	// AllowedEquip - каталог предметов уровня. Пустой = без экипировки.
	AllowedEquip []domain.Equipment

	// Guaranteed - сюжетные фигуры: ставятся первыми и бюджет не тратят.
	Guaranteed []*domain.Piece
}

// Army - собранная армия: задний и передний ряды.
// nil в слоте - пустая клетка. Расстановку на доску делает оркестратор.
type Army struct {
	Back  []*domain.Piece
	Front []*domain.Piece
}

// composition - один вариант состава заднего ряда.
type composition struct {
	queens, rooks, bishops, knights int
}

func (c composition) cost() int {
	return c.queens*domain.Queen.Cost() +
		c.rooks*domain.Rook.Cost() +
		c.bishops*domain.Bishop.Cost() +
		c.knights*domain.Knight.Cost()
}

func (c composition) count() int {
	return c.queens + c.rooks + c.bishops + c.knights
}

// BuildArmy собирает армию по бюджету.
// Перебираются все допустимые составы заднего ряда (ферзь 0-1,
// ладьи/слоны/кони 0-3, итого не больше шести фигур при короле),
// из посильных выбирается случайный, остаток золота уходит на пешки.
func BuildArmy(g *rng.Generator, width int, cfg ArmyConfig) Army {
	armyLogger := logger.Log.WithFields(logrus.Fields{
		"component": "army_builder",
		"color":     cfg.Color,
		"gold":      cfg.Gold,
	})

	army := Army{
		Back:  make([]*domain.Piece, width),
		Front: make([]*domain.Piece, width),
	}

	// 1. Король - всегда, в центре заднего ряда
	king := domain.NewPiece(domain.King, cfg.Color)
	kingSlot := width / 2
	army.Back[kingSlot] = king

	// 2. Сюжетные фигуры: бюджет не тратят, ставятся до генерации
	placeGuaranteed(g, &army, cfg.Guaranteed)

	// 3. Бюджет: часть может быть зарезервирована под пешки
	pawnReserve := int(float64(cfg.Gold) * cfg.PawnShare)
	backGold := cfg.Gold - pawnReserve

	comp, ok := pickComposition(g, backGold, allowed(cfg.AllowedTypes))
	if !ok {
		armyLogger.Warn("No affordable back-rank composition, pawns only.")
	}
	leftover := backGold
	if ok {
		leftover = backGold - comp.cost()
		fillBackRank(g, &army, comp, cfg.Color)
	}

	// 4. Пешки на резерв плюс остаток
	pawnGold := pawnReserve + leftover
	pawnCost := domain.Pawn.Cost()
	pawns := 0
	for pawnGold >= pawnCost {
		if !placePawn(g, &army, domain.NewPiece(domain.Pawn, cfg.Color)) {
			break // некуда ставить
		}
		pawnGold -= pawnCost
		pawns++
	}

	// 5. Экипировка на отдельный бюджет
	assignEquipment(g, &army, cfg)

	armyLogger.WithFields(logrus.Fields{
		"back_pieces": comp.count() + 1,
		"pawns":       pawns,
	}).Debug("Army assembled.")

	return army
}

// allowed превращает список разрешенных типов в быстрый предикат.
func allowed(types []domain.PieceType) map[domain.PieceType]bool {
	if len(types) == 0 {
		return map[domain.PieceType]bool{
			domain.Queen: true, domain.Rook: true,
			domain.Bishop: true, domain.Knight: true, domain.Pawn: true,
		}
	}
	m := make(map[domain.PieceType]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return m
}

// pickComposition перебирает все составы и выбирает случайный из
// посильных. Пустой состав (одни пешки) тоже посильный, поэтому
// ok=false возможен только при пустом каталоге.
func pickComposition(g *rng.Generator, gold int, types map[domain.PieceType]bool) (composition, bool) {
	var feasible []composition
	maxQ := boundFor(types, domain.Queen, 1)
	maxR := boundFor(types, domain.Rook, 3)
	maxB := boundFor(types, domain.Bishop, 3)
	maxN := boundFor(types, domain.Knight, 3)

	for q := 0; q <= maxQ; q++ {
		for r := 0; r <= maxR; r++ {
			for b := 0; b <= maxB; b++ {
				for n := 0; n <= maxN; n++ {
					c := composition{queens: q, rooks: r, bishops: b, knights: n}
					if c.count() > 6 {
						continue
					}
					if c.cost() <= gold {
						feasible = append(feasible, c)
					}
				}
			}
		}
	}
	if len(feasible) == 0 {
		return composition{}, false
	}
	// Пустые и полупустые составы скучны: предпочитаем дорогие.
	// Сортировки нет - просто несколько попыток взять состав пожирнее.
	best := feasible[g.Intn(len(feasible))]
	for tries := 0; tries < 3; tries++ {
		c := feasible[g.Intn(len(feasible))]
		if c.cost() > best.cost() {
			best = c
		}
	}
	return best, true
}

func boundFor(types map[domain.PieceType]bool, t domain.PieceType, limit int) int {
	if !types[t] {
		return 0
	}
	return limit
}

// fillBackRank раскидывает состав по свободным слотам заднего ряда.
func fillBackRank(g *rng.Generator, army *Army, comp composition, color domain.Color) {
	var pieces []*domain.Piece
	for i := 0; i < comp.queens; i++ {
		pieces = append(pieces, domain.NewPiece(domain.Queen, color))
	}
	for i := 0; i < comp.rooks; i++ {
		pieces = append(pieces, domain.NewPiece(domain.Rook, color))
	}
	for i := 0; i < comp.bishops; i++ {
		pieces = append(pieces, domain.NewPiece(domain.Bishop, color))
	}
	for i := 0; i < comp.knights; i++ {
		pieces = append(pieces, domain.NewPiece(domain.Knight, color))
	}

	slots := freeSlots(army.Back)
	g.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
	for i, p := range pieces {
		if i >= len(slots) {
			break
		}
		army.Back[slots[i]] = p
	}
}

// placeGuaranteed ставит сюжетные фигуры. Пешки идут в передний ряд,
// остальные - в задний; переполнившие свой ряд перетекают в соседний.
func placeGuaranteed(g *rng.Generator, army *Army, guaranteed []*domain.Piece) {
	for _, p := range guaranteed {
		p.Preconfigured = true
		primary, secondary := army.Back, army.Front
		if p.Type == domain.Pawn {
			primary, secondary = army.Front, army.Back
		}
		if !placeInto(g, primary, p) {
			placeInto(g, secondary, p)
		}
	}
}

func placePawn(g *rng.Generator, army *Army, p *domain.Piece) bool {
	return placeInto(g, army.Front, p)
}

// placeInto ставит фигуру в случайный свободный слот ряда.
func placeInto(g *rng.Generator, rank []*domain.Piece, p *domain.Piece) bool {
	slots := freeSlots(rank)
	if len(slots) == 0 {
		return false
	}
	rank[slots[g.Intn(len(slots))]] = p
	return true
}

func freeSlots(rank []*domain.Piece) []int {
	var slots []int
	for i, p := range rank {
		if p == nil {
			slots = append(slots, i)
		}
	}
	return slots
}

// assignEquipment раздает предметы на отдельный бюджет экипировки.
// Каждый предмет условно стоит EquipCost золота. Предпочитаются еще
// не экипированные фигуры; королю никогда не достается маскировка.
const EquipCost = 3

func assignEquipment(g *rng.Generator, army *Army, cfg ArmyConfig) {
	if len(cfg.AllowedEquip) == 0 {
		return
	}
	budget := cfg.EquipGold

	// Лимит попыток страхует от вырожденного каталога
	// (например, в каталоге одна маскировка, а гол только король).
	for tries := 0; budget >= EquipCost && tries < 50; tries++ {
		target := pickEquipTarget(g, army)
		if target == nil {
			return
		}
		item := cfg.AllowedEquip[g.Intn(len(cfg.AllowedEquip))]
		if !target.SetEquip(item) {
			continue
		}
		budget -= EquipCost
	}
}

// pickEquipTarget выбирает фигуру под предмет: сперва из голых,
// и только когда голых нет - никого (повторная экипировка запрещена,
// у фигуры не больше одного предмета).
func pickEquipTarget(g *rng.Generator, army *Army) *domain.Piece {
	var bare []*domain.Piece
	for _, rank := range [][]*domain.Piece{army.Back, army.Front} {
		for _, p := range rank {
			if p != nil && p.Equip == domain.NoEquip {
				bare = append(bare, p)
			}
		}
	}
	if len(bare) == 0 {
		return nil
	}
	return bare[g.Intn(len(bare))]
}
