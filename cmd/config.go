package main

import "time"

type Config struct {
	Secret               string        `env:"SECRET,required=true"`
	SubscribePrefix      string        `env:"SUBSCRIBE_PREFIX,default=/topic"`
	BufferSize           int           `env:"BUFFER_SIZE,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	LimitNotifications   *int          `env:"LIMIT_NOTIFICATIONS"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,required=true"`
	AdmissionTimeout     time.Duration `env:"ADMISSION_TIMEOUT,required=true"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,required=true"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true"`
	TokenDuration        time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath        string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	DebugPort            int           `env:"DEBUG_PORT"`
	MailAPIKey           string        `env:"MAIL_API_KEY"`
	MailAPIURL           string        `env:"MAIL_API_URL"`
	MailFrom             string        `env:"MAIL_FROM"`
}
