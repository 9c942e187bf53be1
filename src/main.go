package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
)

var Version = "development"

// chk prints err and exits.
func chk(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	flags := processCommandLine(os.Args[1:])
	if _, ok := flags["-h"]; ok {
		fmt.Print(usage)
		return
	}

	var out io.Writer = os.Stderr
	if p := flags["-log"]; p != "" && p != "true" {
		f, err := os.Create(p)
		chk(err)
		defer f.Close()
		out = f
	}
	logger := log.New(out, "", log.LstdFlags)

	opts, err := boutOptionsFrom(flags)
	chk(err)
	b, err := newBout(opts, logger)
	chk(err)
	defer b.Close()

	res, err := b.Run()
	chk(err)
	fmt.Println(res)

	if opts.StatsPath != "" {
		chk(writeStats(opts.StatsPath, b.match))
	}
	b.Stop()
}

const usage = `Options (case sensitive):
-h -?                   Help
-config <path>          Loads settings from <path> on top of the defaults
-log <logfile>          Writes the bout log to <logfile>
-p<n> <character>       Loads character n from a YAML file or a built-in name, eg. -p1 kaito
-p<n>.ai <level>        Sets player n's AI to easy, normal or hard
-script <path>          Drives player 1 from the Lua script at <path>
-frames <num>           Stops after <num> frames (default 36000)
-stats <path>           Adds the bout to the JSON stats file at <path>
-rewind <num>           Rewinds <num> frames at the end and resimulates them
`

var boolFlags = map[string]bool{
	"-h": true,
	"-?": true,
}

// processCommandLine maps flags to values. Leading bare arguments fill -p1
// and -p2; a value-expecting flag left without a value becomes "true".
func processCommandLine(args []string) map[string]string {
	flags := make(map[string]string)
	key := ""
	player := 1
	flagsEncountered := false
	isFlag := regexp.MustCompile("^-")
	for _, a := range args {
		_, err := strconv.ParseFloat(a, 64)
		isNumber := err == nil

		if key != "" && (isNumber || !isFlag.MatchString(a)) {
			flags[key] = a
			key = ""
		} else if isFlag.MatchString(a) {
			flagsEncountered = true
			if a == "-?" {
				a = "-h"
			}
			if boolFlags[a] {
				flags[a] = "true"
				key = ""
			} else {
				flags[a] = ""
				key = a
			}
		} else if !flagsEncountered && player <= 2 {
			flags[fmt.Sprintf("-p%v", player)] = a
			player++
		}
	}
	if key != "" {
		flags[key] = "true"
	}
	return flags
}
