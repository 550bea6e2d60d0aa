package systems

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
)

// Калькулятор шансов. Считает точную вероятность победы в будущем бою
// по тем же профилям бросков, что и резолвер, но замкнутой формулой,
// без единого обращения к генератору: его дергают наведение курсора
// и оценки бота, и трогать поток случайности им нельзя.

// rollDist - распределение значения кубика 1..6 по профилю броска.
// Форсированный бросок схлопывается в точечную массу; преимущество
// дает P(max двух кубиков = k) = (2k-1)/36.
func rollDist(pr rollProfile) [7]float64 {
	var d [7]float64
	switch {
	case pr.Forced != 0:
		d[pr.Forced] = 1
	case pr.Advantage:
		for k := 1; k <= 6; k++ {
			d[k] = float64(2*k-1) / 36
		}
	default:
		for k := 1; k <= 6; k++ {
			d[k] = 1.0 / 6
		}
	}
	return d
}

// WinProbability - вероятность (0..1) победы атакующего из from над
// фигурой в to. Равенство итогов - победа атакующего.
func WinProbability(b *domain.Board, from, to domain.Square, advantage bool) float64 {
	attacker := b.PieceAt(from.X, from.Y)
	defender := b.PieceAt(to.X, to.Y)
	if attacker == nil || defender == nil {
		return 0
	}
	if b.BellProtected(defender) {
		return 0
	}

	atkPr := attackerProfile(b, from, to, advantage)
	defPr := defenderProfile(b, from, to)
	atkDist := rollDist(atkPr)
	defDist := rollDist(defPr)

	p := 0.0
	for a := 1; a <= 6; a++ {
		for d := 1; d <= 6; d++ {
			if a+atkPr.Mod >= d+defPr.Mod {
				p += atkDist[a] * defDist[d]
			}
		}
	}
	return p
}

// ObstacleWinProbability - вероятность снести препятствие в to.
func ObstacleWinProbability(b *domain.Board, from, to domain.Square, advantage bool) float64 {
	attacker := b.PieceAt(from.X, from.Y)
	obstacle := b.ObstacleAt(to.X, to.Y)
	if attacker == nil || obstacle == domain.ObstacleNone {
		return 0
	}

	pr := obstacleProfile(b, from, to, advantage)
	dist := rollDist(pr)

	p := 0.0
	for a := 1; a <= 6; a++ {
		if a+pr.Mod >= obstacle.Threshold() {
			p += dist[a]
		}
	}
	return p
}

// WinPercent - то же, что WinProbability, но в целых процентах для
// бейджа над курсором.
func WinPercent(b *domain.Board, from, to domain.Square, advantage bool) int {
	return int(WinProbability(b, from, to, advantage)*100 + 0.5)
}

// ObstacleWinPercent - процент шанса сноса препятствия.
func ObstacleWinPercent(b *domain.Board, from, to domain.Square, advantage bool) int {
	return int(ObstacleWinProbability(b, from, to, advantage)*100 + 0.5)
}
