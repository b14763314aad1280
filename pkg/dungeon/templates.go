package dungeon

import "math/rand"

// SpawnTemplate - что можно положить на уровень: символ отображения, имя для сообщений
// и минимальная глубина появления.
type SpawnTemplate struct {
	Char     byte
	Name     string
	MinDepth int
}

// --- ВРАГИ ---

var Jackal = SpawnTemplate{Char: 'd', Name: "jackal", MinDepth: 1}
var Newt = SpawnTemplate{Char: ':', Name: "newt", MinDepth: 1}
var Goblin = SpawnTemplate{Char: 'o', Name: "goblin", MinDepth: 1}
var GiantRat = SpawnTemplate{Char: 'r', Name: "giant rat", MinDepth: 2}
var HillOrc = SpawnTemplate{Char: 'o', Name: "hill orc", MinDepth: 3}
var Troll = SpawnTemplate{Char: 'T', Name: "troll", MinDepth: 6}

var EnemyTemplates = map[string]SpawnTemplate{
	"jackal":    Jackal,
	"newt":      Newt,
	"goblin":    Goblin,
	"giant_rat": GiantRat,
	"hill_orc":  HillOrc,
	"troll":     Troll,
}

// --- ПРЕДМЕТЫ ---

var GoldPiece = SpawnTemplate{Char: '$', Name: "gold piece", MinDepth: 1}
var FoodRation = SpawnTemplate{Char: '%', Name: "food ration", MinDepth: 1}
var Dagger = SpawnTemplate{Char: ')', Name: "dagger", MinDepth: 1}
var RingMail = SpawnTemplate{Char: '[', Name: "ring mail", MinDepth: 1}
var HealingPotion = SpawnTemplate{Char: '!', Name: "potion of healing", MinDepth: 1}
var ScrollOfLight = SpawnTemplate{Char: '?', Name: "scroll of light", MinDepth: 1}
var WandOfDigging = SpawnTemplate{Char: '/', Name: "wand of digging", MinDepth: 3}
var Amulet = SpawnTemplate{Char: '"', Name: "cheap plastic imitation", MinDepth: 4}

var ItemTemplates = map[string]SpawnTemplate{
	"gold":   GoldPiece,
	"food":   FoodRation,
	"dagger": Dagger,
	"armor":  RingMail,
	"potion": HealingPotion,
	"scroll": ScrollOfLight,
	"wand":   WandOfDigging,
	"amulet": Amulet,
}

// LootTable - ключи ItemTemplates в стабильном порядке (для детерминированного выбора по rng)
var LootTable []string

// EnemyTable - то же для врагов
var EnemyTable []string

func init() {
	LootTable = []string{"gold", "food", "dagger", "armor", "potion", "scroll", "wand", "amulet"}
	EnemyTable = []string{"jackal", "newt", "goblin", "giant_rat", "hill_orc", "troll"}
}

// pick выбирает шаблон, доступный на глубине depth. Возвращает false, если таких нет.
func pick(table []string, templates map[string]SpawnTemplate, depth int, rng *rand.Rand) (SpawnTemplate, bool) {
	var allowed []SpawnTemplate
	for _, key := range table {
		if t := templates[key]; t.MinDepth <= depth {
			allowed = append(allowed, t)
		}
	}
	if len(allowed) == 0 {
		return SpawnTemplate{}, false
	}
	return allowed[rng.Intn(len(allowed))], true
}

// NameOf ищет имя объекта по символу (для сообщений симуляции).
// При совпадении символов побеждает первый шаблон в таблице.
func NameOf(ch byte) string {
	for _, key := range LootTable {
		if t := ItemTemplates[key]; t.Char == ch {
			return t.Name
		}
	}
	for _, key := range EnemyTable {
		if t := EnemyTemplates[key]; t.Char == ch {
			return t.Name
		}
	}
	return "thing"
}
