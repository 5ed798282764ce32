package broken

func Resolve(a int, b Missing) int {
	return a
}
