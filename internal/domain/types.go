package domain

// Color - сторона конфликта. Белые - игрок, черные - компьютер.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent возвращает противоположную сторону.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// PawnDir - направление "вперед" для пешек этой стороны.
// Белые стоят у ряда y=0 и идут вверх, черные - навстречу.
func (c Color) PawnDir() int {
	if c == White {
		return 1
	}
	return -1
}

// PieceType - закрытый набор типов фигур (однобуквенные коды, как в нотации).
type PieceType string

const (
	King   PieceType = "K"
	Queen  PieceType = "Q"
	Rook   PieceType = "R"
	Bishop PieceType = "B"
	Knight PieceType = "N"
	Pawn   PieceType = "P"
)

// Value - ценность фигуры для оценки обменов ботом.
// Король оценен запредельно: его потеря - конец партии.
func (t PieceType) Value() float64 {
	switch t {
	case King:
		return 100
	case Queen:
		return 9
	case Rook:
		return 5
	case Bishop:
		return 3
	case Knight:
		return 3
	case Pawn:
		return 1
	}
	return 0
}

// Cost - цена найма в золоте для сборщика армии.
func (t PieceType) Cost() int {
	switch t {
	case Queen:
		return 9
	case Rook:
		return 5
	case Bishop:
		return 3
	case Knight:
		return 3
	case Pawn:
		return 1
	}
	// Король не покупается, он есть всегда
	return 0
}

// Glyph - символ для текстовых дампов доски (отладка, логи).
func (t PieceType) Glyph(c Color) string {
	var g [2]string
	switch t {
	case King:
		g = [2]string{"♔", "♚"}
	case Queen:
		g = [2]string{"♕", "♛"}
	case Rook:
		g = [2]string{"♖", "♜"}
	case Bishop:
		g = [2]string{"♗", "♝"}
	case Knight:
		g = [2]string{"♘", "♞"}
	case Pawn:
		g = [2]string{"♙", "♟"}
	default:
		return "?"
	}
	if c == Black {
		return g[1]
	}
	return g[0]
}

// Equipment - предмет экипировки. У фигуры не больше одного.
type Equipment string

const (
	NoEquip     Equipment = ""
	Sword       Equipment = "sword"        // +1 к броску атаки
	Shield      Equipment = "shield"       // +1 к броску защиты
	Lance       Equipment = "lance"        // разовый прыжок-атака на 2 клетки вперед
	Torch       Equipment = "torch"        // шире обзор; преимущество при атаке в лес
	Bow         Equipment = "bow"          // атакующий один раз переживает проигранную атаку
	Staff       Equipment = "staff"        // победа обращает жертву на свою сторону
	CrystalBall Equipment = "crystal_ball" // обмен местами с соседним союзником/придворным
	Disguise    Equipment = "disguise"     // фигура выглядит пешкой
	Scythe      Equipment = "scythe"       // против пешки бросок всегда максимальный
	Banner      Equipment = "banner"       // +1 защиты соседним союзникам
	Curse       Equipment = "curse"        // смерть носителя оглушает всех соседей
	Skull       Equipment = "skull"        // смерть носителя забирает противника с собой
	Purse       Equipment = "purse"        // только золото при захвате, в магазине не бывает
)

// EquipCatalog - все предметы, которые вообще могут оказаться на фигуре.
// Purse намеренно в списке: он попадает на фигуры сюжетно, не из магазина.
var EquipCatalog = []Equipment{
	Sword, Shield, Lance, Torch, Bow, Staff, CrystalBall,
	Disguise, Scythe, Banner, Curse, Skull, Purse,
}

// Terrain - рельеф клетки.
type Terrain string

const (
	TerrainNone Terrain = ""
	Forest      Terrain = "forest"
	Water       Terrain = "water"
)

// DefenseMod - поправка к броску защитника, стоящего на этой клетке.
func (t Terrain) DefenseMod() int {
	switch t {
	case Forest:
		return 1
	case Water:
		return -1
	}
	return 0
}

// Obstacle - разрушаемое препятствие на клетке.
type Obstacle string

const (
	ObstacleNone Obstacle = ""
	Rock         Obstacle = "rock"
	Courtier     Obstacle = "courtier"
	Gate         Obstacle = "gate"
	Bell         Obstacle = "bell"
	Column       Obstacle = "column"
)

// Threshold - порог разрушения: итог броска атакующего должен быть не ниже.
func (o Obstacle) Threshold() int {
	switch o {
	case Courtier:
		return 1
	case Gate:
		return 3
	case Bell:
		return 4
	case Rock:
		return 5
	case Column:
		return 6
	}
	return 0
}

// Square - координаты клетки. y=0 - ряд у края игрока.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// VeteranKills - столько побед нужно фигуре для статуса ветерана.
const VeteranKills = 5

// CurseStunTurns - на сколько ходов проклятие оглушает соседей.
const CurseStunTurns = 2
