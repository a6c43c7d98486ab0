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

package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindColumn(t *testing.T) {
	headers := []string{"username", "Password", " usage ", "limit"}

	col, ok := findColumn(headers, "password")
	require.True(t, ok)
	assert.Equal(t, 1, col)

	col, ok = findColumn(headers, "usage")
	require.True(t, ok)
	assert.Equal(t, 2, col)

	_, ok = findColumn(headers, "email")
	assert.False(t, ok)
}

func TestFindUserRow(t *testing.T) {
	rows := [][]interface{}{
		{"alice", "s3cret", "4", "10"},
		{"bob", "hunter2", "0", "5"},
	}

	pos, ok := findUserRow(rows, 0, 1, "bob", "hunter2")
	require.True(t, ok)
	assert.Equal(t, 1, pos)
	// The spreadsheet row is the data position plus the header offset.
	assert.Equal(t, 3, pos+headerRowOffset)

	_, ok = findUserRow(rows, 0, 1, "bob", "wrong")
	assert.False(t, ok, "password must match exactly")

	_, ok = findUserRow(rows, 0, 1, "Alice", "s3cret")
	assert.False(t, ok, "username match is case sensitive")
}

func TestFindUserRowShortRow(t *testing.T) {
	rows := [][]interface{}{{"carol"}}
	_, ok := findUserRow(rows, 0, 1, "carol", "")
	assert.True(t, ok, "a missing password cell reads as empty")
}

func TestCellInt(t *testing.T) {
	row := []interface{}{"7", " 12 ", "abc", float64(3)}
	assert.Equal(t, 7, cellInt(row, 0))
	assert.Equal(t, 12, cellInt(row, 1))
	assert.Equal(t, 0, cellInt(row, 2))
	assert.Equal(t, 3, cellInt(row, 3))
	assert.Equal(t, 0, cellInt(row, 9))
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(0))
	assert.Equal(t, "C", columnLetter(2))
	assert.Equal(t, "Z", columnLetter(25))
	assert.Equal(t, "AA", columnLetter(26))
	assert.Equal(t, "AB", columnLetter(27))
}
