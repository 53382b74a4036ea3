// Copyright 2026 The LexDesk Authors
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

package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const (
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength   = 9
)

// NewUUIDv7 returns a new time-ordered UUID string.
func NewUUIDv7() string {
	u, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the system entropy source does.
		return uuid.NewString()
	}
	return u.String()
}

// NewResourceID returns a primary key of the form {kind}_{unixMillis}_{suffix}
// where suffix is nine base36 characters. Stored rows already use this format.
func NewResourceID(kind string) string {
	return fmt.Sprintf("%s_%d_%s", kind, time.Now().UnixMilli(), randomSuffix())
}

func randomSuffix() string {
	buf := make([]byte, suffixLength)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("id: failed to read random source: %v", err))
		}
		buf[i] = base36Alphabet[n.Int64()]
	}
	return string(buf)
}
