package mqttbridge

import (
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// zerologAdapter routes paho's internal logging to zerolog.
type zerologAdapter struct {
	level zerolog.Level
}

func (a zerologAdapter) Println(v ...interface{}) {
	log.WithLevel(a.level).Str("component", "paho").Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func (a zerologAdapter) Printf(format string, v ...interface{}) {
	log.WithLevel(a.level).Str("component", "paho").Msgf(format, v...)
}

// SetupLogging wires paho's loggers into zerolog. Paho debug output is only
// enabled when verbose is set.
func SetupLogging(verbose bool) {
	mqtt.ERROR = zerologAdapter{level: zerolog.ErrorLevel}
	mqtt.CRITICAL = zerologAdapter{level: zerolog.ErrorLevel}
	mqtt.WARN = zerologAdapter{level: zerolog.WarnLevel}
	if verbose {
		mqtt.DEBUG = zerologAdapter{level: zerolog.DebugLevel}
	}
}
