package domain

import "strings"

// Condition - битовая маска состояний персонажа из строки статуса.
type Condition uint32

const (
	ConditionStone Condition = 1 << iota
	ConditionSlime
	ConditionStrangled
	ConditionFoodPoisoned
	ConditionIll
	ConditionBlind
	ConditionDeaf
	ConditionStunned
	ConditionConfused
	ConditionHallucinating
	ConditionLevitating
	ConditionFlying
	ConditionRiding
)

var conditionNames = []struct {
	c    Condition
	name string
}{
	{ConditionStone, "Stone"},
	{ConditionSlime, "Slime"},
	{ConditionStrangled, "Strngl"},
	{ConditionFoodPoisoned, "FoodPois"},
	{ConditionIll, "TermIll"},
	{ConditionBlind, "Blind"},
	{ConditionDeaf, "Deaf"},
	{ConditionStunned, "Stun"},
	{ConditionConfused, "Conf"},
	{ConditionHallucinating, "Hallu"},
	{ConditionLevitating, "Lev"},
	{ConditionFlying, "Fly"},
	{ConditionRiding, "Ride"},
}

func (c Condition) Has(flag Condition) bool { return c&flag != 0 }

// Names возвращает короткие имена выставленных состояний в фиксированном порядке.
func (c Condition) Names() []string {
	var out []string
	for _, cn := range conditionNames {
		if c.Has(cn.c) {
			out = append(out, cn.name)
		}
	}
	return out
}

func (c Condition) String() string {
	return strings.Join(c.Names(), " ")
}

// Alignment персонажа
type Alignment int

const (
	AlignmentChaotic Alignment = -1
	AlignmentNeutral Alignment = 0
	AlignmentLawful  Alignment = 1
)

func (a Alignment) String() string {
	switch {
	case a < 0:
		return "Chaotic"
	case a > 0:
		return "Lawful"
	}
	return "Neutral"
}

// Hunger - состояние голода
type Hunger int

const (
	HungerSatiated Hunger = iota
	HungerNotHungry
	HungerHungry
	HungerWeak
	HungerFainting
	HungerFainted
	HungerStarved
)

var hungerNames = map[Hunger]string{
	HungerSatiated:  "Satiated",
	HungerNotHungry: "",
	HungerHungry:    "Hungry",
	HungerWeak:      "Weak",
	HungerFainting:  "Fainting",
	HungerFainted:   "Fainted",
	HungerStarved:   "Starved",
}

func (h Hunger) String() string {
	return hungerNames[h]
}

// StatusSnapshot - сводное состояние персонажа после пачки событий.
type StatusSnapshot struct {
	Title      string    `json:"title,omitempty"`
	HP         int       `json:"hp"`
	HPMax      int       `json:"hpMax"`
	Power      int       `json:"power"`
	PowerMax   int       `json:"powerMax"`
	XPLevel    int       `json:"xpLevel"`
	Experience int       `json:"experience"`
	ArmorClass int       `json:"armorClass"`
	Str        int       `json:"str"`
	Dex        int       `json:"dex"`
	Con        int       `json:"con"`
	Int        int       `json:"int"`
	Wis        int       `json:"wis"`
	Cha        int       `json:"cha"`
	Gold       int       `json:"gold"`
	Moves      int       `json:"moves"`
	Alignment  Alignment `json:"alignment"`
	Hunger     Hunger    `json:"hunger"`
	Conditions Condition `json:"conditions"`

	// Depth в событии статуса отсутствует (пробел протокола).
	// Переносится из предыдущего снимка или из опроса уровня; DepthKnown=false,
	// пока ни один источник глубину не сообщил.
	Depth      int  `json:"depth"`
	DepthKnown bool `json:"depthKnown"`
}
