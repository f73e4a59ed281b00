//
// Copyright (c) 2014-2019 Cesanta Software Limited
// All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
package timeout

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common"
)

// DefaultInterval is the pause between attempts of a polling loop.
const DefaultInterval = 10 * time.Millisecond

// Timeout tracks the deadline of a polling loop.
//
//	for t := timeout.New(5 * time.Second); t.Check(ctx); {
//		...
//	}
type Timeout struct {
	start    time.Time
	deadline time.Time
	interval time.Duration
	checked  bool
	expired  bool
}

func New(d time.Duration) *Timeout {
	return NewWithInterval(d, DefaultInterval)
}

func NewWithInterval(d, interval time.Duration) *Timeout {
	now := time.Now()
	return &Timeout{start: now, deadline: now.Add(d), interval: interval}
}

// Check returns true while the deadline has not passed. Every call except the
// first one sleeps for the polling interval first.
func (t *Timeout) Check(ctx context.Context) bool {
	if t.expired {
		return false
	}
	if t.checked && t.interval > 0 {
		select {
		case <-ctx.Done():
			t.expired = true
			return false
		case <-time.After(t.interval):
		}
	}
	t.checked = true
	if ctx.Err() != nil || !time.Now().Before(t.deadline) {
		t.expired = true
	}
	return !t.expired
}

// Expired reports whether a previous Check observed the deadline.
func (t *Timeout) Expired() bool {
	return t.expired
}

func (t *Timeout) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Cond is evaluated by Poll until it returns true.
type Cond func(ctx context.Context) (bool, error)

// Poll evaluates cond until it returns true or d elapses.
// Transfer errors returned by cond are retried, any other error aborts the loop.
// On expiry a timeout error naming what is returned, wrapping the last transfer error.
func Poll(ctx context.Context, d time.Duration, what string, cond Cond) error {
	return PollEvery(ctx, d, DefaultInterval, what, cond)
}

func PollEvery(ctx context.Context, d, interval time.Duration, what string, cond Cond) error {
	var lastErr error
	attempts := 0
	for t := NewWithInterval(d, interval); t.Check(ctx); {
		attempts++
		done, err := cond(ctx)
		if err != nil {
			if !common.IsTransferError(err) {
				return errors.Trace(err)
			}
			glog.V(3).Infof("%s: attempt %d: %s", what, attempts, err)
			lastErr = err
			continue
		}
		if done {
			return nil
		}
	}
	if err := ctx.Err(); err != nil {
		return errors.Annotatef(err, "%s", what)
	}
	glog.V(1).Infof("%s: gave up after %d attempts", what, attempts)
	return errors.NewTimeout(lastErr, fmt.Sprintf("timed out waiting for %s (%s)", what, d))
}

// Sleep waits for d unless ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return errors.Trace(ctx.Err())
	case <-time.After(d):
		return nil
	}
}
