// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package shutdown

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	assert := assert.New(t)

	f := New()
	assert.False(f.IsSet())

	assert.True(f.Set())
	assert.True(f.IsSet())

	// Setting again is harmless.
	assert.False(f.Set())
	assert.False(f.Set())
	assert.True(f.IsSet())

	select {
	case <-f.Done():
	default:
		assert.Fail("done channel should be closed")
	}
}

func TestConcurrentSet(t *testing.T) {
	f := New()

	var wg sync.WaitGroup
	var m sync.Mutex
	firsts := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Set() {
				m.Lock()
				firsts++
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, firsts)
	assert.True(t, f.IsSet())
}

func TestWait(t *testing.T) {
	tests := []struct {
		description string
		preset      bool
		setDuring   bool
		expect      bool
	}{
		{
			description: "times out",
		}, {
			description: "already set",
			preset:      true,
			expect:      true,
		}, {
			description: "set while waiting",
			setDuring:   true,
			expect:      true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mclock := clock.NewMock()
			f := New()
			if tc.preset {
				f.Set()
			}

			done := make(chan bool)
			go func() {
				done <- f.Wait(mclock, time.Minute)
			}()

			var got bool
			if tc.setDuring {
				f.Set()
				select {
				case got = <-done:
				case <-time.After(time.Second):
					require.FailNow("wait did not return when the flag was set")
				}
			} else {
				require.Eventually(func() bool {
					mclock.Add(time.Minute)
					select {
					case got = <-done:
						return true
					default:
						return false
					}
				}, time.Second, time.Millisecond)
			}

			assert.Equal(tc.expect, got)
		})
	}
}
