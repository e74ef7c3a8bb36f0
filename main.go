// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/capsula-run/capsula/cmd/capsula"

func main() {
	cmd.Execute()
}
