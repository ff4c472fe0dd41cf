package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/aryanA101a/toyvm/vm"
)

// exit statuses
const (
	exitHalt      = 0
	exitLoad      = 1
	exitUsage     = 2
	exitDecode    = 3
	exitIO        = 4
	exitParse     = 5
	exitInterrupt = 130
)

var (
	traceFile = flag.String("trace", "", "append an instruction trace to `file`")
	rawMode   = flag.Bool("raw", true, "disable line buffering and echo while the program runs")
)

func main() {
	os.Exit(run())
}

func run() int {
	log.SetPrefix("lc3: ")
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] image-file...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		return exitUsage
	}

	stdout := bufio.NewWriter(os.Stdout)
	machine := vm.NewVM(vm.NewKeyboard(os.Stdin), stdout)

	for _, name := range flag.Args() {
		if err := readProgram(machine, name); err != nil {
			log.Printf("failed to load image: %v", err)
			return exitLoad
		}
	}

	if *traceFile != "" {
		f, err := os.OpenFile(*traceFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Printf("error opening trace file: %v", err)
			return exitUsage
		}
		defer f.Close()
		machine.SetTrace(log.New(f, "", log.Lmicroseconds))
	}

	tty := &terminal{}
	if *rawMode {
		var err error
		tty, err = enableRawMode(os.Stdin)
		if err != nil {
			log.Printf("%v", err)
			return exitIO
		}
	}
	defer tty.disableRawMode()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigs)
		close(sigs)
	}()
	go restoreOnSignal(sigs, tty.disableRawMode, os.Exit)

	err := machine.Run()
	stdout.Flush()
	if err == nil {
		return exitHalt
	}

	tty.disableRawMode()
	fmt.Fprintln(os.Stderr)
	switch {
	case vm.IsDecodeError(err):
		log.Printf("malformed instruction: %v", err)
		return exitDecode
	case vm.IsParseError(err):
		log.Printf("bad numeric input: %v", err)
		return exitParse
	case vm.IsIOError(err):
		log.Printf("console i/o failed: %v", err)
		return exitIO
	}
	log.Printf("%v", err)
	return exitIO
}

// restoreOnSignal puts the terminal back and exits when a signal arrives.
// It returns quietly once sigs is closed.
func restoreOnSignal(sigs <-chan os.Signal, restore func(), exit func(int)) {
	if _, ok := <-sigs; ok {
		restore()
		exit(exitInterrupt)
	}
}

func readProgram(machine *vm.VM, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	origin, n, err := machine.LoadImage(f)
	if err != nil {
		return errors.Wrap(err, name)
	}
	log.Printf("loaded %s: %d words at 0x%04x", name, n, origin)
	return nil
}
