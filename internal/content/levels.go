// Package content грузит контент кампании: описания уровней в YAML.
// Встроенный набор уровней можно подменить внешним файлом через флаг.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var embeddedLevels []byte

// Victory - условие победы уровня.
type Victory string

const (
	// VictoryKillKing - убить вражеского короля (по умолчанию).
	VictoryKillKing Victory = "kill_king"
	// VictoryEscape - довести своего короля до ряда побега.
	VictoryEscape Victory = "escape"
	// VictoryBell - вражеский король неуязвим, пока стоит колокол.
	VictoryBell Victory = "bell"
)

// GuaranteedPiece - сюжетная фигура уровня из YAML.
type GuaranteedPiece struct {
	Type   domain.PieceType `yaml:"type"`
	Name   string           `yaml:"name"`
	Equip  domain.Equipment `yaml:"equip"`
	Speech []string         `yaml:"speech"`
}

// SideDef - параметры армии одной стороны.
type SideDef struct {
	Gold       int                `yaml:"gold"`
	PawnShare  float64            `yaml:"pawnShare"`
	EquipGold  int                `yaml:"equipGold"`
	Types      []domain.PieceType `yaml:"types"`
	Equip      []domain.Equipment `yaml:"equip"`
	Guaranteed []GuaranteedPiece  `yaml:"guaranteed"`
}

// Level - полное описание одного уровня кампании.
type Level struct {
	Number    int     `yaml:"number"`
	Name      string  `yaml:"name"`
	BoardSize int     `yaml:"boardSize"`

	White SideDef `yaml:"white"`
	Black SideDef `yaml:"black"`

	Forest     float64                 `yaml:"forest"`
	Water      float64                 `yaml:"water"`
	Obstacles  map[domain.Obstacle]int `yaml:"obstacles"`
	SpawnRanks int                     `yaml:"spawnRanks"`

	Victory Victory `yaml:"victory"`

	// FogRows - сколько дальних рядов скрыто от игрока. 0 = тумана нет.
	FogRows int `yaml:"fogRows"`

	// Prayers - сколько перемаливаний доступно игроку на уровне.
	Prayers int `yaml:"prayers"`

	Behavior string `yaml:"behavior"`
}

// Campaign - весь загруженный контент.
type Campaign struct {
	Levels []Level `yaml:"levels"`
}

// Load читает кампанию из файла path, а при пустом path - встроенную.
func Load(path string) (*Campaign, error) {
	data := embeddedLevels
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading campaign file: %w", err)
		}
	}

	var c Campaign
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing campaign yaml: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LevelByNumber ищет уровень по номеру. За последним уровнем кампания
// зацикливается на нем же с ростом бюджета - бесконечный режим.
func (c *Campaign) LevelByNumber(n int) Level {
	for _, lvl := range c.Levels {
		if lvl.Number == n {
			return lvl
		}
	}
	last := c.Levels[len(c.Levels)-1]
	extra := n - last.Number
	last.Number = n
	last.White.Gold += extra * 2
	last.Black.Gold += extra * 3
	return last
}

func (c *Campaign) validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("campaign has no levels")
	}
	for i, lvl := range c.Levels {
		if lvl.BoardSize < 5 || lvl.BoardSize > 12 {
			return fmt.Errorf("level %d: board size %d out of range 5-12", lvl.Number, lvl.BoardSize)
		}
		if lvl.Forest+lvl.Water > 0.9 {
			return fmt.Errorf("level %d: terrain density %.2f leaves no open ground", lvl.Number, lvl.Forest+lvl.Water)
		}
		if lvl.Victory == "" {
			c.Levels[i].Victory = VictoryKillKing
		}
		if lvl.Victory == VictoryBell && lvl.Obstacles[domain.Bell] == 0 {
			return fmt.Errorf("level %d: bell victory without a bell obstacle", lvl.Number)
		}
		for _, gp := range append(lvl.White.Guaranteed, lvl.Black.Guaranteed...) {
			if gp.Type == domain.King {
				return fmt.Errorf("level %d: guaranteed kings are not allowed, the builder adds one", lvl.Number)
			}
		}
	}
	return nil
}
