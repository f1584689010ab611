package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/pretty"

	"github.com/retra-de/retra-go-sdk/pkg/cmdutil"
	"github.com/retra-de/retra-go-sdk/pkg/logutil"
)

// configReport is the startup summary printed with --dump-config and in dev
// mode. It only carries values that are safe to print.
type configReport struct {
	Name         string           `json:"name"`
	Version      string           `json:"version"`
	Metadata     logutil.Metadata `json:"metadata"`
	RedisAddress string           `json:"redis_address"`
	DevMode      bool             `json:"dev_mode"`
}

func newConfigReport(redisAddress string, dev bool) configReport {
	return configReport{
		Name:         cmdutil.Name,
		Version:      cmdutil.Version,
		Metadata:     logutil.MetadataFromEnv(),
		RedisAddress: redisAddress,
		DevMode:      dev,
	}
}

func dumpJSON(data any) error {
	b, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return err
	}

	b = pretty.Color(b, pretty.TerminalStyle)
	fmt.Fprintln(os.Stderr, string(b))

	return nil
}
