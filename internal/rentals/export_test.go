package rentals

import "time"

func (c *Catalog) SetClock(now func() time.Time) { c.now = now }

func (w *Workflow) SetClock(now func() time.Time) { w.now = now }

func (sl *Shortlist) SetClock(now func() time.Time) { sl.now = now }

var DistanceKm = distanceKm
