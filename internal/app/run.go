package app

import (
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/helmet_sentry/internal/cellular"
	"github.com/relabs-tech/helmet_sentry/internal/config"
	"github.com/relabs-tech/helmet_sentry/internal/gpio"
	"github.com/relabs-tech/helmet_sentry/internal/imu"
	"github.com/relabs-tech/helmet_sentry/internal/rf"
	"github.com/relabs-tech/helmet_sentry/internal/sensors"
	"github.com/relabs-tech/helmet_sentry/internal/telemetry"
)

// RunController brings up every collaborator from the global config and
// runs the safety loop until SIGINT/SIGTERM. Collaborators that fail init
// are reported to the operator channel and skipped; the loop runs degraded
// rather than not at all.
func RunController() error {
	cfg := config.Get()
	deps := Deps{
		AdminNumber:    cfg.AlertSMSNumber,
		MotionInterval: time.Duration(cfg.MotionSampleInterval) * time.Millisecond,
		GateInterval:   time.Duration(cfg.GateEvalInterval) * time.Millisecond,
		StatusInterval: time.Duration(cfg.StatusPublishInterval) * time.Millisecond,
	}
	var degraded []string

	// Operator channel first so later failures can be reported on it.
	operator, err := telemetry.NewRealPublisher(cfg.MQTTBroker, cfg.MQTTClientIDController, cfg.TopicStatus, cfg.TopicEvents)
	if err != nil {
		log.Printf("controller: WARNING: operator channel unavailable: %v", err)
		degraded = append(degraded, "telemetry")
	} else {
		deps.Operator = operator
		defer operator.Close()
	}

	lines, err := gpio.NewRealReader(cfg.GPIOChip, cfg.StrapPin, cfg.ProximityPin)
	if err != nil {
		log.Printf("controller: WARNING: switch lines unavailable: %v", err)
		degraded = append(degraded, "gpio")
	} else {
		deps.Lines = lines
		defer lines.Close()
	}

	accel, err := openAccel(cfg)
	if err != nil {
		log.Printf("controller: WARNING: accelerometer unavailable: %v", err)
		degraded = append(degraded, "accelerometer")
	} else {
		deps.Accel = accel
	}

	gpsBytes, err := openGPSStream(cfg.GPSSerialPort, uint(cfg.GPSBaudRate))
	if err != nil {
		log.Printf("controller: WARNING: GPS receiver unavailable: %v", err)
		degraded = append(degraded, "gps")
	} else {
		deps.GPSBytes = gpsBytes
	}

	beacon, err := rf.NewSerialSender(cfg.RFSerialPort, uint(cfg.RFBaudRate))
	if err != nil {
		log.Printf("controller: WARNING: RF beacon unavailable: %v", err)
		degraded = append(degraded, "rf")
	} else {
		deps.Beacon = beacon
		defer beacon.Close()
	}

	modem, err := cellular.NewSerialModem(cfg.ModemSerialPort, uint(cfg.ModemBaudRate))
	if err != nil {
		log.Printf("controller: WARNING: cellular modem unavailable: %v", err)
		degraded = append(degraded, "cellular")
	} else {
		deps.Modem = modem
		defer modem.Close()
	}

	c := NewController(deps)

	c.publishEvent(time.Now(), telemetry.EventStartup, "controller up")
	for _, name := range degraded {
		c.publishEvent(time.Now(), telemetry.EventDegraded, name+" unavailable")
	}

	log.Printf("controller: started (tick=%dms motion=%dms gate=%dms status=%dms, degraded: %d)",
		cfg.LoopTickInterval, cfg.MotionSampleInterval, cfg.GateEvalInterval,
		cfg.StatusPublishInterval, len(degraded))

	ticker := time.NewTicker(time.Duration(cfg.LoopTickInterval) * time.Millisecond)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return c.Run(ticker.C, sigCh)
}

// openAccel picks the configured accelerometer source. Mock mode runs the
// whole loop without hardware, useful on a bench.
func openAccel(cfg *config.Config) (imu.Reader, error) {
	if cfg.AccelSource == "mock" {
		log.Println("controller: using mock accelerometer source")
		return sensors.NewFakeAccel([]imu.AccelRaw{{Ax: 0, Ay: 0, Az: 16384}}), nil
	}
	src, err := sensors.NewAccelSource(cfg.AccelI2CBus, cfg.AccelI2CAddr)
	if err != nil {
		// Return an untyped nil so callers can nil-check the interface.
		return nil, err
	}
	return src, nil
}

// openGPSStream opens the receiver UART and pumps raw bytes into a buffered
// channel from a dedicated goroutine. The control loop drains the channel
// on its own schedule; when the loop falls behind, chunks are dropped in
// favor of fresher data. All fix state stays on the loop goroutine.
func openGPSStream(portName string, baudRate uint) (<-chan []byte, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:        portName,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("controller: GPS serial port opened on %s at %d baud", portName, baudRate)

	out := make(chan []byte, 64)
	go func() {
		defer port.Close()
		defer close(out)
		buf := make([]byte, 256)
		for {
			n, err := port.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case out <- chunk:
				default:
					// Loop is behind; drop this chunk.
				}
			}
			if err != nil {
				if err != io.EOF {
					log.Printf("controller: GPS read error: %v", err)
				}
				return
			}
		}
	}()
	return out, nil
}
