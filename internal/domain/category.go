package domain

import (
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Category - семантическая категория клетки, выведенная из символа отображения.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryFloor
	CategoryWall
	CategoryDoorOpen
	CategoryDoorClosed
	CategoryCorridor
	CategoryStairs
	CategoryWater
	CategoryLava
	CategoryAltar
	CategoryFountain
	CategoryThrone
	CategorySink
	CategoryTrap
	CategoryMonster
	CategoryPlayer
	// Классы предметов
	CategoryGold
	CategoryFood
	CategoryWeapon
	CategoryArmor
	CategoryPotion
	CategoryScroll
	CategoryWand
	CategoryRing
	CategoryAmulet
	CategoryTool
	CategoryGem
	CategorySpellbook
	CategoryBoulder
)

// Маппинг для логов и JSON: Domain -> String
var categoryToString = map[Category]string{
	CategoryUnknown:    "unknown",
	CategoryFloor:      "floor",
	CategoryWall:       "wall",
	CategoryDoorOpen:   "door_open",
	CategoryDoorClosed: "door_closed",
	CategoryCorridor:   "corridor",
	CategoryStairs:     "stairs",
	CategoryWater:      "water",
	CategoryLava:       "lava",
	CategoryAltar:      "altar",
	CategoryFountain:   "fountain",
	CategoryThrone:     "throne",
	CategorySink:       "sink",
	CategoryTrap:       "trap",
	CategoryMonster:    "monster",
	CategoryPlayer:     "player",
	CategoryGold:       "gold",
	CategoryFood:       "food",
	CategoryWeapon:     "weapon",
	CategoryArmor:      "armor",
	CategoryPotion:     "potion",
	CategoryScroll:     "scroll",
	CategoryWand:       "wand",
	CategoryRing:       "ring",
	CategoryAmulet:     "amulet",
	CategoryTool:       "tool",
	CategoryGem:        "gem",
	CategorySpellbook:  "spellbook",
	CategoryBoulder:    "boulder",
}

// Обратный маппинг строится один раз из прямого
var stringToCategory = func() map[string]Category {
	m := make(map[string]Category, len(categoryToString))
	for c, s := range categoryToString {
		m[s] = c
	}
	return m
}()

// String реализует интерфейс Stringer (для fmt.Printf)
func (c Category) String() string {
	if s, ok := categoryToString[c]; ok {
		return s
	}
	return "unknown"
}

// MarshalText отдает категорию строкой в JSON.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCategory конвертирует строку в Category (без учета регистра).
func ParseCategory(s string) Category {
	if c, ok := stringToCategory[strings.ToLower(s)]; ok {
		return c
	}
	return CategoryUnknown
}

// Фиксированная таблица символ -> категория.
// '+' на канале глифов - это дверь; книга заклинаний с тем же символом
// приходит как предмет только через подсказку терраина (см. ClassifyTerrain).
var charCategories = map[byte]Category{
	'.':  CategoryFloor,
	'#':  CategoryCorridor,
	'|':  CategoryWall,
	'-':  CategoryWall,
	'<':  CategoryStairs,
	'>':  CategoryStairs,
	'+':  CategoryDoorClosed,
	'\'': CategoryDoorOpen,
	'}':  CategoryWater,
	'{':  CategoryFountain,
	'_':  CategoryAltar,
	'\\': CategoryThrone,
	'^':  CategoryTrap,
	'@':  CategoryPlayer,
	'$':  CategoryGold,
	'%':  CategoryFood,
	')':  CategoryWeapon,
	'[':  CategoryArmor,
	'!':  CategoryPotion,
	'?':  CategoryScroll,
	'/':  CategoryWand,
	'=':  CategoryRing,
	'"':  CategoryAmulet,
	'(':  CategoryTool,
	'*':  CategoryGem,
	'`':  CategoryBoulder,
}

// Classify относит символ отображения ровно к одной категории.
func Classify(ch byte) Category {
	if c, ok := charCategories[ch]; ok {
		return c
	}
	if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
		return CategoryMonster
	}
	return CategoryUnknown
}

// TerrainHint уточняет символ, пришедший по боковому каналу "что под игроком".
// Раковина рисуется как '#', лава как '}', и по одному символу их не отличить.
type TerrainHint uint8

const (
	HintNone TerrainHint = iota
	HintSink
	HintLava
	HintTree
)

// ClassifyTerrain - Classify с учетом подсказки бокового канала.
func ClassifyTerrain(ch byte, hint TerrainHint) Category {
	switch {
	case hint == HintSink && ch == '#':
		return CategorySink
	case hint == HintLava && ch == '}':
		return CategoryLava
	case hint == HintTree && ch == '#':
		return CategoryWall
	}
	return Classify(ch)
}

var (
	terrainCategories    = mapset.New[Category]()
	actionableCategories = mapset.New[Category]()
	itemCategories       = mapset.New[Category]()
)

func init() {
	for _, c := range []Category{
		CategoryFloor, CategoryWall, CategoryDoorOpen, CategoryDoorClosed, CategoryCorridor,
		CategoryStairs, CategoryWater, CategoryLava, CategoryAltar, CategoryFountain,
		CategoryThrone, CategorySink, CategoryTrap,
	} {
		terrainCategories.Put(c)
	}

	for _, c := range []Category{
		CategoryGold, CategoryFood, CategoryWeapon, CategoryArmor, CategoryPotion,
		CategoryScroll, CategoryWand, CategoryRing, CategoryAmulet, CategoryTool,
		CategoryGem, CategorySpellbook, CategoryBoulder,
	} {
		itemCategories.Put(c)
		actionableCategories.Put(c)
	}

	for _, c := range []Category{
		CategoryStairs, CategoryFountain, CategorySink, CategoryAltar, CategoryThrone,
	} {
		actionableCategories.Put(c)
	}
}

// IsTerrain - может ли категория лежать "под" занимающим клетку объектом.
// Монстры, игрок и предметы терраином не являются.
func (c Category) IsTerrain() bool {
	return terrainCategories.Has(c)
}

// IsItem - один из классов предметов.
func (c Category) IsItem() bool {
	return itemCategories.Has(c)
}

// IsActionable - с этим можно взаимодействовать, стоя сверху (лестница, алтарь, предметы...).
func (c Category) IsActionable() bool {
	return actionableCategories.Has(c)
}

// BlocksSight - клетка перекрывает луч обзора.
func (c Category) BlocksSight() bool {
	return c == CategoryWall || c == CategoryDoorClosed
}
