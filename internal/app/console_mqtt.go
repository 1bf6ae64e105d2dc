package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/helmet_sentry/internal/config"
	"github.com/relabs-tech/helmet_sentry/internal/telemetry"
)

// RunConsoleMQTT subscribes to the controller topics and prints a live
// operator console.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	statusToken := client.Subscribe(cfg.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s telemetry.Status
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: status unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[STAT] worn=%-5v fastened=%-5v fix=%-5v sats=%2d lat=%.6f lon=%.6f speed=%5.1f km/h accel=%5.2f m/s² accident=%-5v latched=%v\n",
			s.HelmetWorn, s.StrapFastened, s.Fix.Valid, s.Fix.Satellites,
			s.Fix.Latitude, s.Fix.Longitude, s.Fix.SpeedMps*3.6,
			s.HorizontalAccel, s.Accident, s.Latched,
		)
	})
	statusToken.Wait()
	if statusToken.Error() != nil {
		return statusToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicStatus)

	eventsToken := client.Subscribe(cfg.TopicEvents, 1, func(_ mqtt.Client, msg mqtt.Message) {
		var e telemetry.Event
		if err := json.Unmarshal(msg.Payload(), &e); err != nil {
			log.Printf("console: event unmarshal error: %v", err)
			return
		}

		fmt.Printf("[EVNT] %s %s %s\n", e.Time, e.Type, e.Message)
	})
	eventsToken.Wait()
	if eventsToken.Error() != nil {
		return eventsToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicEvents)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
