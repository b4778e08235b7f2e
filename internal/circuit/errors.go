package circuit

import "fmt"

func errOutOfRangeClbit(i, n int) error {
	return fmt.Errorf("clbit %d out of range [0, %d)", i, n)
}

func errClbitInUse(i int) error {
	return fmt.Errorf("clbit %d is not idle", i)
}
