package engine

import (
	"cognitive-mapview/internal/core/coords"
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/pkg/api"
)

// BuildView создает копию состояния карты для презентации.
// В кадр попадают только известные клетки; для невидимых берется запомненный тайл.
func BuildView(state *domain.MapState, status *domain.StatusSnapshot, logs []domain.LogEntry) api.MapView {
	view := api.MapView{
		Type:        api.ViewTypeUpdate,
		Level:       state.Level,
		Environment: state.Environment,
		Grid:        api.GridMeta{Width: state.Width, Height: state.Height},
	}

	if p, ok := state.Player(); ok {
		view.Player = &api.PointView{X: p.X, Y: p.Y}
	}
	if under, ok := state.TileUnderPlayer(); ok {
		tv := toTileView(under, domain.VisibilityVisible, 1, false)
		view.Under = &tv
		view.UnderActionable = state.HasActionableTileUnderPlayer()
	}

	state.ForEachCell(func(p coords.Point) {
		vis := state.VisibilityAt(p)
		if !vis.IsKnown() {
			return
		}

		tile, ok := state.TileAt(p)
		fromMemory := false
		if vis == domain.VisibilityRemembered {
			if remembered, has := state.RememberedAt(p); has {
				tile, ok, fromMemory = remembered, true, true
			}
		}
		if !ok {
			// Клетка известна, но симуляция ее не рисовала (темный пол и т.п.)
			tile = domain.Tile{X: p.X, Y: p.Y, Glyph: -1, Char: ' '}
		}
		view.Map = append(view.Map, toTileView(tile, vis, state.LightAt(p), fromMemory))
	})

	if status != nil {
		sv := toStatusView(*status)
		view.Status = &sv
	}

	for _, entry := range logs {
		view.Logs = append(view.Logs, api.LogEntry{
			ID:        entry.ID,
			Text:      entry.Text,
			Type:      entry.Type,
			Timestamp: entry.Timestamp,
		})
	}
	return view
}

func toTileView(t domain.Tile, vis domain.Visibility, light float64, fromMemory bool) api.TileView {
	return api.TileView{
		X:          t.X,
		Y:          t.Y,
		Glyph:      t.Glyph,
		Symbol:     string([]byte{t.Char}),
		Color:      t.Fg.Hex(),
		Bg:         t.Bg.Hex(),
		Category:   t.Category.String(),
		Visibility: vis.String(),
		Light:      light,
		FromMemory: fromMemory,
		Pet:        t.Flags.Has(domain.FlagPet),
		Ridden:     t.Flags.Has(domain.FlagRidden),
		Detected:   t.Flags.Has(domain.FlagDetected),
	}
}

func toStatusView(s domain.StatusSnapshot) api.StatusView {
	return api.StatusView{
		Title:      s.Title,
		HP:         s.HP,
		HPMax:      s.HPMax,
		Power:      s.Power,
		PowerMax:   s.PowerMax,
		XPLevel:    s.XPLevel,
		Experience: s.Experience,
		ArmorClass: s.ArmorClass,
		Str:        s.Str,
		Dex:        s.Dex,
		Con:        s.Con,
		Int:        s.Int,
		Wis:        s.Wis,
		Cha:        s.Cha,
		Gold:       s.Gold,
		Moves:      s.Moves,
		Alignment:  s.Alignment.String(),
		Hunger:     s.Hunger.String(),
		Conditions: s.Conditions.Names(),
		Depth:      s.Depth,
		DepthKnown: s.DepthKnown,
	}
}

func toPointViews(points []coords.Point) []api.PointView {
	if len(points) == 0 {
		return nil
	}
	out := make([]api.PointView, len(points))
	for i, p := range points {
		out[i] = api.PointView{X: p.X, Y: p.Y}
	}
	return out
}
