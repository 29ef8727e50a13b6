// Public domain.

package main

import "github.com/vilardellsalles/xmatch/internal/xmprog"

func main() {
	xmprog.Main()
}
