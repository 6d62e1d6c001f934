// @title        Users API
// @version      1.0
// @description  Create, list, fetch and delete user records.
// @BasePath     /
package main

import "github.com/pinkbananas/users-api/cmd"

func main() {
	cmd.Execute()
}
