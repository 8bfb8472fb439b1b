// Command catalogctl administers the catalog database and operator credentials.
package main

import "catalog-admin/cmd/catalogctl/commands"

func main() {
	commands.Execute()
}
