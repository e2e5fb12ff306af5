package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/log"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Debugf("environment loaded from .env")
	}

	app := &cli.App{
		Name:  "kexsim",
		Usage: "Kidney exchange simulator running the TTCC mechanism",
		Commands: []*cli.Command{
			runCmd,
			demoCmd,
			checkCmd,
			renderCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

var runCmd = &cli.Command{
	Name:    "run",
	Usage:   "Run the mechanism over a pool file",
	Aliases: []string{"r"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "pool",
			Required: true,
			Usage:    "specify the input pool.json",
			EnvVars:  []string{"KEXSIM_POOL"},
		},
		&cli.StringFlag{
			Name:    "rule",
			Usage:   "specify the chain selection rule (a-g)",
			EnvVars: []string{"KEXSIM_RULE"},
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "specify a TOML config file",
			EnvVars: []string{"KEXSIM_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "write the final pool state to this file",
		},
		&cli.StringFlag{
			Name:    "events",
			Usage:   "write one snapshot JSON line per round to this file",
			EnvVars: []string{"KEXSIM_EVENTS"},
		},
		&cli.StringFlag{
			Name:    "dot-dir",
			Usage:   "write a Graphviz DOT file per round into this directory",
			EnvVars: []string{"KEXSIM_DOT_DIR"},
		},
		&cli.IntFlag{
			Name:  "high-pra",
			Usage: "PRA percentage counting as highly sensitized",
		},
		&cli.IntFlag{
			Name:  "max-cycle",
			Usage: "largest executable cycle, 0 for no cap",
		},
		&cli.IntFlag{
			Name:  "max-chain",
			Usage: "largest selectable chain, 0 for no cap",
		},
		&cli.IntSliceFlag{
			Name:  "priority",
			Usage: "pair ids ranked for rules d, e and f, best first",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log round traces",
			EnvVars: []string{"KEXSIM_VERBOSE"},
		},
	},
	Action: func(ctx *cli.Context) error {
		var (
			poolFile   = ctx.String("pool")
			ruleName   = ctx.String("rule")
			configFile = ctx.String("config")
			outFile    = ctx.String("out")
			eventsFile = ctx.String("events")
			dotDir     = ctx.String("dot-dir")
			highPRA    = ctx.Int("high-pra")
			maxCycle   = ctx.Int("max-cycle")
			maxChain   = ctx.Int("max-chain")
			priority   = ctx.IntSlice("priority")
			verbose    = ctx.Bool("verbose")
		)
		if highPRA < 0 || highPRA > 100 {
			return errors.New("invalid high-pra")
		}
		if maxCycle < 0 || maxChain < 0 {
			return errors.New("invalid cycle or chain cap")
		}
		if verbose {
			log.SetLevel(log.LevelDebug)
		}
		return doRun(ctx.Context, poolFile, ruleName, configFile, outFile, eventsFile, dotDir,
			highPRA, maxCycle, maxChain, priority, verbose)
	},
}

var demoCmd = &cli.Command{
	Name:  "demo",
	Usage: "Run the published twelve-pair example pool",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "rule",
			Value: "b",
			Usage: "specify the chain selection rule (a-g)",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "write the final pool state to this file",
		},
		&cli.StringFlag{
			Name:  "events",
			Usage: "write one snapshot JSON line per round to this file",
		},
		&cli.StringFlag{
			Name:  "dot-dir",
			Usage: "write a Graphviz DOT file per round into this directory",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log round traces",
		},
	},
	Action: func(ctx *cli.Context) error {
		if ctx.Bool("verbose") {
			log.SetLevel(log.LevelDebug)
		}
		return doDemo(ctx.Context, ctx.String("rule"),
			ctx.String("out"), ctx.String("events"), ctx.String("dot-dir"), ctx.Bool("verbose"))
	},
}

var checkCmd = &cli.Command{
	Name:  "check",
	Usage: "Validate a pool file without running",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "pool",
			Required: true,
			Usage:    "specify the input pool.json",
			EnvVars:  []string{"KEXSIM_POOL"},
		},
	},
	Action: func(ctx *cli.Context) error {
		return doCheck(ctx.String("pool"))
	},
}

var renderCmd = &cli.Command{
	Name:  "render",
	Usage: "Render a pool file as Graphviz DOT",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "pool",
			Required: true,
			Usage:    "specify the input pool.json",
			EnvVars:  []string{"KEXSIM_POOL"},
		},
		&cli.StringFlag{
			Name:  "out",
			Value: "pool.dot",
			Usage: "specify the output .dot file",
		},
		&cli.BoolFlag{
			Name:  "pointers",
			Value: true,
			Usage: "include the next round's pointer graph",
		},
	},
	Action: func(ctx *cli.Context) error {
		return doRender(ctx.String("pool"), ctx.String("out"), ctx.Bool("pointers"))
	},
}
