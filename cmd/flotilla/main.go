package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/flotilladb/flotilla/bootstrap"
	"github.com/flotilladb/flotilla/configuration"
)

var banner = `
  __ _       _   _ _ _
 / _| | ___ | |_(_) | | __ _
| |_| |/ _ \| __| | | |/ _' |
|  _| | (_) | |_| | | | (_| |
|_| |_|\___/ \__|_|_|_|\__,_|
          version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	start, _ := bootstrap.Bootstrap(&c)

	start()
}
