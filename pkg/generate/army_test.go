package generate

import (
	"os"
	"testing"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/logger"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/rng"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func countArmy(a Army) (total, pawns int) {
	for _, rank := range [][]*domain.Piece{a.Back, a.Front} {
		for _, p := range rank {
			if p == nil {
				continue
			}
			total++
			if p.Type == domain.Pawn {
				pawns++
			}
		}
	}
	return total, pawns
}

func armyCost(a Army) int {
	cost := 0
	for _, rank := range [][]*domain.Piece{a.Back, a.Front} {
		for _, p := range rank {
			if p != nil && !p.Preconfigured {
				cost += p.Type.Cost()
			}
		}
	}
	return cost
}

func TestBuildArmyAlwaysHasKing(t *testing.T) {
	for i := 0; i < 20; i++ {
		g := rng.New("kings", i)
		army := BuildArmy(g, 8, ArmyConfig{Color: domain.White, Gold: i * 3})
		kings := 0
		for _, p := range army.Back {
			if p != nil && p.Type == domain.King {
				kings++
			}
		}
		if kings != 1 {
			t.Fatalf("gold=%d: want exactly one king on the back rank, got %d", i*3, kings)
		}
	}
}

func TestBuildArmyRespectsBudget(t *testing.T) {
	for i := 0; i < 50; i++ {
		gold := 5 + i
		g := rng.New("budget", i)
		army := BuildArmy(g, 8, ArmyConfig{Color: domain.Black, Gold: gold})
		if cost := armyCost(army); cost > gold {
			t.Fatalf("gold=%d: army costs %d", gold, cost)
		}
	}
}

func TestBuildArmyZeroGoldIsKingOnly(t *testing.T) {
	g := rng.New("broke", 1)
	army := BuildArmy(g, 8, ArmyConfig{Color: domain.White, Gold: 0})
	total, _ := countArmy(army)
	if total != 1 {
		t.Fatalf("want a lone king, got %d pieces", total)
	}
}

func TestBuildArmyQueenLimit(t *testing.T) {
	// Золота на трех ферзей, но больше одного не положено.
	for i := 0; i < 20; i++ {
		g := rng.New("queens", i)
		army := BuildArmy(g, 8, ArmyConfig{Color: domain.White, Gold: 30})
		queens := 0
		for _, p := range army.Back {
			if p != nil && p.Type == domain.Queen {
				queens++
			}
		}
		if queens > 1 {
			t.Fatalf("seed %d: %d queens", i, queens)
		}
	}
}

func TestBuildArmyAllowedTypes(t *testing.T) {
	g := rng.New("knights-only", 4)
	army := BuildArmy(g, 8, ArmyConfig{
		Color:        domain.White,
		Gold:         20,
		AllowedTypes: []domain.PieceType{domain.Knight, domain.Pawn},
	})
	for _, rank := range [][]*domain.Piece{army.Back, army.Front} {
		for _, p := range rank {
			if p == nil {
				continue
			}
			switch p.Type {
			case domain.King, domain.Knight, domain.Pawn:
			default:
				t.Fatalf("forbidden type %s in army", p.Type)
			}
		}
	}
}

func TestBuildArmyPawnShare(t *testing.T) {
	g := rng.New("pawn-share", 2)
	army := BuildArmy(g, 8, ArmyConfig{Color: domain.White, Gold: 20, PawnShare: 0.5})
	_, pawns := countArmy(army)
	// Резерв в 10 золота гарантирует хотя бы пять пешек при свободном ряде.
	if pawns < 5 {
		t.Fatalf("want at least 5 pawns from the reserve, got %d", pawns)
	}
}

func TestBuildArmyGuaranteedPieces(t *testing.T) {
	hero := domain.NewPiece(domain.Rook, domain.White)
	hero.Name = "Gonzo"
	hero.SetEquip(domain.Lance)

	g := rng.New("story", 7)
	army := BuildArmy(g, 8, ArmyConfig{
		Color:      domain.White,
		Gold:       0,
		Guaranteed: []*domain.Piece{hero},
	})

	found := false
	for _, p := range army.Back {
		if p != nil && p.ID == hero.ID {
			found = true
			if !p.Preconfigured {
				t.Error("guaranteed piece must be marked preconfigured")
			}
			if p.Equip != domain.Lance {
				t.Error("guaranteed piece lost its equipment")
			}
		}
	}
	if !found {
		t.Fatal("guaranteed rook missing from the back rank")
	}
}

func TestAssignEquipmentBudget(t *testing.T) {
	g := rng.New("gear", 3)
	army := BuildArmy(g, 8, ArmyConfig{
		Color:        domain.White,
		Gold:         20,
		EquipGold:    EquipCost * 2,
		AllowedEquip: []domain.Equipment{domain.Sword, domain.Shield},
	})
	equipped := 0
	for _, rank := range [][]*domain.Piece{army.Back, army.Front} {
		for _, p := range rank {
			if p != nil && p.Equip != domain.NoEquip {
				equipped++
			}
		}
	}
	if equipped > 2 {
		t.Fatalf("equip budget for 2 items, %d pieces equipped", equipped)
	}
}

func TestAssignEquipmentNeverDisguisesKing(t *testing.T) {
	// Каталог из одной маскировки: король должен остаться без предмета,
	// а сборка - завершиться.
	for i := 0; i < 10; i++ {
		g := rng.New("sneaky", i)
		army := BuildArmy(g, 8, ArmyConfig{
			Color:        domain.Black,
			Gold:         0,
			EquipGold:    EquipCost * 5,
			AllowedEquip: []domain.Equipment{domain.Disguise},
		})
		for _, p := range army.Back {
			if p != nil && p.Type == domain.King && p.Equip != domain.NoEquip {
				t.Fatal("king must never carry a disguise")
			}
		}
	}
}

func TestBuildArmyDeterministic(t *testing.T) {
	cfg := ArmyConfig{
		Color:        domain.White,
		Gold:         25,
		EquipGold:    9,
		AllowedEquip: []domain.Equipment{domain.Sword, domain.Shield, domain.Banner},
	}
	a := BuildArmy(rng.New("same", 3), 8, cfg)
	b := BuildArmy(rng.New("same", 3), 8, cfg)

	for i := range a.Back {
		ta, tb := typeAt(a.Back, i), typeAt(b.Back, i)
		if ta != tb {
			t.Fatalf("back slot %d differs: %s vs %s", i, ta, tb)
		}
	}
	for i := range a.Front {
		ta, tb := typeAt(a.Front, i), typeAt(b.Front, i)
		if ta != tb {
			t.Fatalf("front slot %d differs: %s vs %s", i, ta, tb)
		}
	}
}

func typeAt(rank []*domain.Piece, i int) domain.PieceType {
	if rank[i] == nil {
		return ""
	}
	return rank[i].Type
}
