package cache

import "time"

func (d *MemoryDenylist) SetClock(now func() time.Time) {
	d.now = now
}
