// Command tabular trains tabular control agents on frozen lake
// gridworlds
package main

func main() {
	Execute()
}
