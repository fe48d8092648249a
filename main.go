package main

import "github.com/RahulB-24/ExpenseOps/cmd"

func main() {
	cmd.Execute()
}
