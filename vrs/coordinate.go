// Copyright 2024 The Tessera authors. All Rights Reserved.
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

package vrs

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON renders a definite Coordinate as a bare integer, and a
// ranged Coordinate as a 2-element array `[lower, upper]` with either
// side `null` if unbounded -- the wire form VRS uses for interresidue
// positions and ranges respectively.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.IsRange() {
		return json.Marshal(*c.Value)
	}
	return json.Marshal([2]*int64{c.Lower, c.Upper})
}

// UnmarshalJSON accepts either a bare integer (definite coordinate) or a
// 2-element array (range coordinate).
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var asValue int64
	if err := json.Unmarshal(data, &asValue); err == nil {
		c.Value = &asValue
		c.Lower, c.Upper = nil, nil
		return nil
	}
	var asRange [2]*int64
	if err := json.Unmarshal(data, &asRange); err != nil {
		return fmt.Errorf("coordinate must be an integer or a 2-element array: %w", err)
	}
	c.Value = nil
	c.Lower, c.Upper = asRange[0], asRange[1]
	return nil
}
