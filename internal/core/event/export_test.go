// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import "time"

// SetClock pins the service clock for tests.
func (service *Service) SetClock(now func() time.Time) {
	service.now = now
}
