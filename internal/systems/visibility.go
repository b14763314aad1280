package systems

import (
	"cognitive-mapview/internal/core/coords"
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/pkg/logger"

	"github.com/sirupsen/logrus"
)

// RecomputeVisibility пересчитывает, какие клетки сейчас видны игроку.
//
//  1. Все Visible клетки понижаются до Remembered (единственное место, где это происходит).
//  2. Каждая клетка с манхэттенским расстоянием <= SightRadius, прошедшая проверку
//     прямой видимости, становится Visible с яркостью (r - d) / r.
//  3. Остальные клетки не трогаются: Remembered/Unexplored/Detected/Dark сохраняются.
//
// Повторный вызов без изменений сетки дает тот же результат.
func RecomputeVisibility(state *domain.MapState, player coords.Point) {
	fovLogger := logger.Log.WithFields(logrus.Fields{
		"component":  "visibility",
		"player_pos": player,
	})

	if !state.InBounds(player) {
		fovLogger.Warn("Visibility recompute skipped: player outside the grid.")
		return
	}

	radius := state.SightRadius
	if radius < 0 {
		radius = 0
	}

	// 1. Понижаем текущую видимость
	downgraded := 0
	state.ForEachCell(func(p coords.Point) {
		if state.VisibilityAt(p) != domain.VisibilityVisible {
			return
		}
		state.Remember(p)
		_ = state.SetVisibility(p, domain.VisibilityRemembered)
		_ = state.SetLight(p, 0)
		downgraded++
	})

	// 2. Обходим ромб радиуса radius вокруг игрока
	visible := 0
	for dy := -radius; dy <= radius; dy++ {
		span := radius - abs(dy)
		for dx := -span; dx <= span; dx++ {
			p := coords.Point{X: player.X + dx, Y: player.Y + dy}
			if !state.InBounds(p) {
				continue
			}
			if !HasLineOfSight(state, player, p) {
				continue
			}

			_ = state.SetVisibility(p, domain.VisibilityVisible)
			_ = state.SetLight(p, lightLevel(radius, player.ManhattanTo(p)))
			state.Remember(p)
			visible++
		}
	}

	fovLogger.WithFields(logrus.Fields{
		"radius":        radius,
		"visible_tiles": visible,
		"downgraded":    downgraded,
	}).Debug("Visibility recompute complete.")
}

// lightLevel - яркость клетки на расстоянии d при радиусе r.
// При нулевом радиусе видна только клетка игрока, и она освещена полностью.
func lightLevel(radius, distance int) float64 {
	if radius == 0 {
		return 1
	}
	return float64(radius-distance) / float64(radius)
}
