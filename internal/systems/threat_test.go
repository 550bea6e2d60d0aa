package systems

import (
	"testing"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
)

func TestThreatenedAlongOpenLine(t *testing.T) {
	b := domain.NewBoard(8)
	place(b, domain.Rook, domain.Black, 0, 5)
	place(b, domain.King, domain.White, 7, 5)

	sq := domain.Square{X: 7, Y: 5}
	if !Threatened(b, sq, domain.Black) {
		t.Fatal("rook on an open line must threaten the king square")
	}

	// Любая фигура между ними снимает угрозу
	place(b, domain.Pawn, domain.Black, 4, 5)
	if Threatened(b, sq, domain.Black) {
		t.Error("blocked line must not threaten")
	}
}

func TestStunnedPieceDoesNotThreaten(t *testing.T) {
	b := domain.NewBoard(8)
	r := place(b, domain.Rook, domain.Black, 0, 5)
	r.Stun = 1

	if Threatened(b, domain.Square{X: 5, Y: 5}, domain.Black) {
		t.Error("a stunned piece must not project threat")
	}
}

func TestObstacleSquareIsOrdinaryThreatTarget(t *testing.T) {
	b := domain.NewBoard(8)
	place(b, domain.Rook, domain.White, 2, 2)
	b.Obstacles[2][6] = domain.Gate

	if !Threatened(b, domain.Square{X: 6, Y: 2}, domain.White) {
		t.Error("obstacle squares are ordinary targets for threat checks")
	}
}

func TestSwapIsNotAThreat(t *testing.T) {
	b := domain.NewBoard(8)
	p := place(b, domain.Bishop, domain.White, 3, 3)
	p.SetEquip(domain.CrystalBall)
	place(b, domain.Pawn, domain.White, 3, 4)

	if Attacks(b, 3, 3, 3, 4) {
		t.Error("crystal ball swap destination must not count as an attack")
	}
}

func TestSupportCount(t *testing.T) {
	b := domain.NewBoard(8)
	place(b, domain.Rook, domain.White, 2, 0)   // атакующий
	place(b, domain.Knight, domain.White, 0, 1) // бьет (2,2)
	place(b, domain.Bishop, domain.White, 0, 0) // бьет (2,2) по диагонали
	place(b, domain.Queen, domain.White, 7, 6)  // не достает
	place(b, domain.Pawn, domain.Black, 2, 2)   // цель

	from := domain.Square{X: 2, Y: 0}
	to := domain.Square{X: 2, Y: 2}
	if got := SupportCount(b, from, to, domain.White); got != 2 {
		t.Errorf("SupportCount = %d, want 2 (knight and bishop)", got)
	}
}

func TestInCheck(t *testing.T) {
	b := domain.NewBoard(8)
	place(b, domain.King, domain.White, 4, 0)
	place(b, domain.Queen, domain.Black, 4, 7)

	if !InCheck(b, domain.White) {
		t.Fatal("queen on the open file must give check")
	}
	if InCheck(b, domain.Black) {
		t.Error("black has no king and therefore no check")
	}
}
