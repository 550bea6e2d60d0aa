package engine

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/systems"

	"github.com/sirupsen/logrus"
)

// PurseGold - сколько золота приносит захваченный кошелек.
const PurseGold = 5

// applyCombat - вторая фаза боя фигур: примение разыгранного
// результата к доске. Сам расчет уже сделан в PerformMove.
func (g *Game) applyCombat(pc *PendingCombat) {
	attacker := g.Board.PieceAt(pc.From.X, pc.From.Y)
	defender := g.Board.PieceAt(pc.To.X, pc.To.Y)
	if attacker == nil || defender == nil {
		return
	}

	out := pc.Piece
	if out.BellSaved {
		g.log.WithField("defender", defender.ID).Info("Bell voids the combat.")
		return
	}

	// Копье сгорает независимо от исхода.
	if pc.Kind == systems.MoveLance && attacker.Equip == domain.Lance {
		attacker.ConsumeEquip()
	}

	if out.Win {
		g.resolveAttackerWin(pc, attacker, defender)
	} else {
		g.resolveAttackerLoss(pc, attacker, defender)
	}
}

func (g *Game) resolveAttackerWin(pc *PendingCombat, attacker, defender *domain.Piece) {
	// Посох: жертва переходит на сторону атакующего вместо смерти.
	// Свою экипировку она сохраняет, посох сгорает, атакующий остается
	// на месте. На королей посох не действует - их можно только убить.
	if attacker.Equip == domain.Staff && defender.Type != domain.King {
		defender.Color = attacker.Color
		attacker.ConsumeEquip()
		attacker.Kills++
		g.log.WithFields(logrus.Fields{
			"attacker": attacker.ID,
			"convert":  defender.ID,
		}).Info("Staff converts the defender.")
		return
	}

	g.killPiece(pc.To, defender, attacker)

	// Череп жертвы: взаимное уничтожение, атакующий не занимает клетку.
	if defender.Equip == domain.Skull {
		g.killPiece(pc.From, attacker, defender)
		return
	}

	g.Board.SetPiece(pc.To.X, pc.To.Y, g.Board.RemovePiece(pc.From.X, pc.From.Y))
	g.recordTrail(attacker, pc.To)
}

func (g *Game) resolveAttackerLoss(pc *PendingCombat, attacker, defender *domain.Piece) {
	// Лук: атакующий один раз переживает проигранную атаку.
	if attacker.Equip == domain.Bow {
		attacker.ConsumeEquip()
		g.log.WithField("attacker", attacker.ID).Info("Bow saves the attacker.")
		return
	}

	g.killPiece(pc.From, attacker, defender)
	if attacker.Equip == domain.Skull {
		g.killPiece(pc.To, defender, attacker)
	}
}

// killPiece убирает фигуру с доски и отрабатывает ее посмертие:
// проклятие, кошелек, счетчик убийств победителя.
func (g *Game) killPiece(at domain.Square, victim, killer *domain.Piece) {
	if g.Board.PieceAt(at.X, at.Y) != victim {
		return
	}
	g.Board.RemovePiece(at.X, at.Y)
	killer.Kills++

	switch victim.Equip {
	case domain.Curse:
		stunned := systems.StunAdjacent(g.Board, at, domain.CurseStunTurns)
		g.log.WithFields(logrus.Fields{
			"victim":  victim.ID,
			"stunned": len(stunned),
		}).Info("Curse stuns the neighbors.")
	case domain.Purse:
		if killer.Color == domain.White {
			g.GoldEarned += PurseGold
		}
	}

	g.log.WithFields(logrus.Fields{
		"victim": victim.ID,
		"killer": killer.ID,
		"kills":  killer.Kills,
	}).Debug("Piece destroyed.")
}

// applyObstacle - вторая фаза сноса препятствия. Победа убирает
// препятствие, фигура при этом остается на своей клетке.
func (g *Game) applyObstacle(pc *PendingCombat) {
	attacker := g.Board.PieceAt(pc.From.X, pc.From.Y)
	if attacker == nil {
		return
	}

	if pc.Kind == systems.MoveLance && attacker.Equip == domain.Lance {
		attacker.ConsumeEquip()
	}

	if !pc.Obstacle.Win {
		return
	}

	kind := g.Board.ObstacleAt(pc.To.X, pc.To.Y)
	g.Board.RemoveObstacle(pc.To.X, pc.To.Y)

	if kind == domain.Bell && !g.Board.BellStanding() {
		g.log.Info("The bell is silenced, the king is mortal again.")
	}
}
