// Copyright 2025 Reelscope, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserQuotaAccessors(t *testing.T) {
	user := &User{Username: "alice", Usage: 3, Limit: 10}

	assert.Equal(t, 7, user.Remaining())

	usage, limit := user.QuotaState()
	assert.Equal(t, 3, usage)
	assert.Equal(t, 10, limit)

	user.SetUsage(4)
	assert.Equal(t, 6, user.Remaining())
}

// A session shares one User record with every run it starts, so the
// quota accessors get hit from multiple goroutines at once.
func TestUserQuotaConcurrentAccess(t *testing.T) {
	user := &User{Username: "bob", Usage: 0, Limit: 100}

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			user.SetUsage(n)
		}(i)
		go func() {
			defer wg.Done()
			usage, limit := user.QuotaState()
			assert.GreaterOrEqual(t, usage, 0)
			assert.Equal(t, 100, limit)
		}()
	}
	wg.Wait()

	usage, _ := user.QuotaState()
	assert.Equal(t, 100-usage, user.Remaining())
}
