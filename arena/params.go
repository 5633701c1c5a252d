package arena

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params are the read-only game parameters. Keys match the game's own names.
type Params struct {
	// HP modifiers
	CollisionHPDamage int `yaml:"collision-hp-damage" json:"collision-hp-damage"`
	FoodHPBonus       int `yaml:"food-hp-bonus" json:"food-hp-bonus"`
	PoisonHPDamage    int `yaml:"poison-hp-damage" json:"poison-hp-damage"`

	// Score modifiers
	FoodScoreBonus             int `yaml:"food-score-bonus" json:"food-score-bonus"`
	WombatHitBonus             int `yaml:"wombat-hit-bonus" json:"wombat-hit-bonus"`
	ZakanoHitBonus             int `yaml:"zakano-hit-bonus" json:"zakano-hit-bonus"`
	SteelBarrierHitBonus       int `yaml:"steel-barrier-hit-bonus" json:"steel-barrier-hit-bonus"`
	WoodBarrierHitBonus        int `yaml:"wood-barrier-hit-bonus" json:"wood-barrier-hit-bonus"`
	WombatDestroyedBonus       int `yaml:"wombat-destroyed-bonus" json:"wombat-destroyed-bonus"`
	ZakanoDestroyedBonus       int `yaml:"zakano-destroyed-bonus" json:"zakano-destroyed-bonus"`
	WoodBarrierDestroyedBonus  int `yaml:"wood-barrier-destroyed-bonus" json:"wood-barrier-destroyed-bonus"`
	SteelBarrierDestroyedBonus int `yaml:"steel-barrier-destroyed-bonus" json:"steel-barrier-destroyed-bonus"`

	ShotDistance int `yaml:"shot-distance" json:"shot-distance"`
}

// DefaultParams matches the standard arena rules.
func DefaultParams() Params {
	return Params{
		CollisionHPDamage:          10,
		FoodHPBonus:                5,
		PoisonHPDamage:             10,
		FoodScoreBonus:             10,
		WombatHitBonus:             10,
		ZakanoHitBonus:             8,
		SteelBarrierHitBonus:       2,
		WoodBarrierHitBonus:        2,
		WombatDestroyedBonus:       25,
		ZakanoDestroyedBonus:       15,
		WoodBarrierDestroyedBonus:  3,
		SteelBarrierDestroyedBonus: 25,
		ShotDistance:               5,
	}
}

// LoadParams reads a YAML file over the defaults. Keys missing from the file
// keep their default value.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("params %s: %w", path, err)
	}
	if p.ShotDistance <= 0 {
		return p, fmt.Errorf("params %s: shot-distance must be positive, got %d", path, p.ShotDistance)
	}
	return p, nil
}
