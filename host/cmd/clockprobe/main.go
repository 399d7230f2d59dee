// Command clockprobe samples an MCU's uptime counter against the host
// monotonic clock and reports the drift between them.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"embtime/clock"
	"embtime/core"
	"embtime/duration"
	"embtime/fixedpoint"
	"embtime/host/mcuclock"
	"embtime/host/monoclock"
	"embtime/sysclock"
)

var (
	configPath = flag.String("config", "", "JSON config file (overrides -device and -baud)")
	device     = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud       = flag.Int("baud", 250000, "Baud rate (ignored for USB CDC)")
	freq       = flag.Uint("freq", 1000000, "MCU clock frequency: 1000000 (gopper) or 12000000 (Klipper rp2040)")
	interval   = flag.Uint("interval", 1000, "Sample interval in milliseconds")
	samples    = flag.Int("samples", 10, "Number of samples (0 = until interrupted)")
	csvPath    = flag.String("csv", "", "Also append samples to this CSV file (rotated at 10MB)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	fmt.Println("clockprobe - MCU clock drift monitor")
	fmt.Println("====================================")

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		core.SetDebugWriter(func(s string) { fmt.Println(s) })
		core.SetDebugEnabled(true)
	}

	var samplesOut io.Writer = io.Discard
	if *csvPath != "" {
		logFile := &lumberjack.Logger{
			Filename:   *csvPath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		defer logFile.Close()
		samplesOut = logFile
	}

	switch *freq {
	case 1000000:
		err = probe[duration.Microsecond](cfg, samplesOut)
	case 12000000:
		err = probe[sysclock.Tick](cfg, samplesOut)
	default:
		err = fmt.Errorf("unsupported -freq %d", *freq)
	}

	if *verbose {
		core.DumpTimingRing()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*mcuclock.Config, error) {
	if *configPath != "" {
		return mcuclock.LoadConfigFile(*configPath)
	}
	cfg := mcuclock.DefaultConfig(*device)
	cfg.Serial.Baud = *baud
	return cfg, nil
}

// probe paces samples with a periodic timer on the host clock and compares
// how far each clock moved since the first sample. Each sample is also
// written to out as a CSV row.
func probe[U duration.Unit](cfg *mcuclock.Config, out io.Writer) error {
	fmt.Printf("Connecting to MCU on %s...\n", cfg.Serial.Device)
	mcu, err := mcuclock.Open[U](cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := mcu.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	host := monoclock.New()
	mcuStart, err := mcu.TryNow()
	if err != nil {
		return fmt.Errorf("first uptime query: %w", err)
	}
	hostStart, _ := host.TryNow()
	fmt.Printf("MCU uptime at start: %v\n\n", mcuStart.SinceEpoch())

	ticker, err := clock.NewPeriodic(host, duration.Milliseconds[uint64](uint64(*interval))).Start()
	if err != nil {
		return err
	}

	fmt.Printf("%6s %14s %14s %12s\n", "sample", "host", "mcu", "drift(ppm)")
	for i := 1; *samples == 0 || i <= *samples; i++ {
		if ticker, err = ticker.Wait(nil); err != nil {
			return err
		}

		mcuNow, err := mcu.TryNow()
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		hostNow, _ := host.TryNow()

		hostElapsed, _ := hostNow.DurationSince(hostStart)
		mcuElapsed, _ := mcuNow.DurationSince(mcuStart)
		mcuNs, err := duration.Convert[uint64, duration.Nanosecond](mcuElapsed, fixedpoint.Floor)
		if err != nil {
			return err
		}

		drift := driftPPM(mcuNs.Ticks(), hostElapsed.Ticks())
		fmt.Printf("%6d %14v %14v %12.2f\n", i, hostElapsed, mcuElapsed, drift)
		fmt.Fprintf(out, "%d,%d,%d,%d,%.3f\n", i, hostElapsed.Ticks(), mcuNow.Ticks(), mcuNs.Ticks(), drift)
	}
	if d := mcu.Dropped(); d > 0 {
		fmt.Printf("\n%d corrupt blocks discarded\n", d)
	}
	return nil
}

func driftPPM(mcuNs, hostNs uint64) float64 {
	if hostNs == 0 {
		return 0
	}
	return (float64(mcuNs) - float64(hostNs)) / float64(hostNs) * 1e6
}
