// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/curioloop/descent/cmd/descent/cmd"
)

func main() {
	cmd.Execute()
}
