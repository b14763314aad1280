package engine

import (
	"cognitive-mapview/internal/domain"
	"cognitive-mapview/pkg/api"
	"fmt"
)

var errMissingPayload = fmt.Errorf("event has no payload: %w", api.ErrMalformedPayload)

// applyStatus разбирает нативную запись статуса в снимок.
// Глубина в событии отсутствует и берется из предыдущего снимка (или опроса уровня),
// а не подставляется нулем.
func (c *Consumer) applyStatus(p domain.Payload) (domain.StatusSnapshot, error) {
	if p == nil {
		return domain.StatusSnapshot{}, errMissingPayload
	}
	defer p.Release()

	rec, err := api.DecodeStatus(p.Bytes())
	if err != nil {
		return domain.StatusSnapshot{}, err
	}

	depth, known := c.depth, c.depthKnown
	if c.last != nil && c.last.DepthKnown {
		depth, known = c.last.Depth, true
	}
	return snapshotFromRecord(rec, depth, known), nil
}

func snapshotFromRecord(rec api.StatusRecord, depth int, depthKnown bool) domain.StatusSnapshot {
	return domain.StatusSnapshot{
		Title:      rec.TitleString(),
		HP:         int(rec.HP),
		HPMax:      int(rec.HPMax),
		Power:      int(rec.Power),
		PowerMax:   int(rec.PowerMax),
		XPLevel:    int(rec.XPLevel),
		Experience: int(rec.Experience),
		ArmorClass: int(rec.ArmorClass),
		Str:        int(rec.Str),
		Dex:        int(rec.Dex),
		Con:        int(rec.Con),
		Int:        int(rec.Int),
		Wis:        int(rec.Wis),
		Cha:        int(rec.Cha),
		Gold:       int(rec.Gold),
		Moves:      int(rec.Moves),
		Alignment:  domain.Alignment(rec.Alignment),
		Hunger:     domain.Hunger(rec.Hunger),
		Conditions: domain.Condition(rec.Conditions),
		Depth:      depth,
		DepthKnown: depthKnown,
	}
}
