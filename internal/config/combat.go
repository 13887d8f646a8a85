package config

import "time"

// Combat holds the tunables of the combat core.
// Defaults reproduce the balance of the shipped game.
type Combat struct {
	// Buff stacks
	MaxStacks     int           `yaml:"max_stacks"`
	BuffRegenTime time.Duration `yaml:"buff_regen_time"` // one stack per period

	// Poison debuff
	PoisonDamagePerTick float32       `yaml:"poison_damage_per_tick"`
	PoisonTickTime      time.Duration `yaml:"poison_tick_time"`

	// Stun debuff
	StunDuration       time.Duration `yaml:"stun_duration"`
	StunChancePerStack float64       `yaml:"stun_chance_per_stack"` // 0.05 = 5% per stack

	// Attack speed buff: interval *= max(floor, 1 - perStack*stacks)
	AttackSpeedPerStack float32 `yaml:"attack_speed_per_stack"`
	AttackSpeedFloor    float32 `yaml:"attack_speed_floor"`

	// Counter bonus applied by the engagement system when the attacker counters the target kind.
	CounterMultiplier float32 `yaml:"counter_multiplier"`

	// Kill streak detection (CombatMessage).
	KillStreakWindow time.Duration `yaml:"kill_streak_window"`
	KillStreakSize   int           `yaml:"kill_streak_size"`
}

// DefaultCombat returns Combat with the stock game balance.
func DefaultCombat() Combat {
	return Combat{
		MaxStacks:           5,
		BuffRegenTime:       5 * time.Second,
		PoisonDamagePerTick: 1.0,
		PoisonTickTime:      1 * time.Second,
		StunDuration:        1 * time.Second,
		StunChancePerStack:  0.05,
		AttackSpeedPerStack: 0.05,
		AttackSpeedFloor:    0.25,
		CounterMultiplier:   1.5,
		KillStreakWindow:    2 * time.Second,
		KillStreakSize:      3,
	}
}

// Campaign holds the limits and scoring weights of the campaign meta-layer.
type Campaign struct {
	MaxRounds    int     `yaml:"max_rounds"`
	MaxLosses    int     `yaml:"max_losses"`
	WinsToFinish int     `yaml:"wins_to_finish"`
	ScorePerUnit float32 `yaml:"score_per_unit"`
	ScorePerGold float32 `yaml:"score_per_gold"`
	StartingGold int     `yaml:"starting_gold"`
	VictoryGold  int     `yaml:"victory_gold"` // gold awarded after each won battle
}

// DefaultCampaign returns Campaign with the stock limits (15 rounds, 3 losses, 10 wins).
func DefaultCampaign() Campaign {
	return Campaign{
		MaxRounds:    15,
		MaxLosses:    3,
		WinsToFinish: 10,
		ScorePerUnit: 1.2,
		ScorePerGold: 2.0,
		StartingGold: 0,
		VictoryGold:  0,
	}
}
