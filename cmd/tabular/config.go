package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/tabular/environment/gridworld"
	"github.com/samuelfneumann/tabular/experiment"
	"github.com/samuelfneumann/tabular/utils/logging"
)

// namedMaps are the lake maps which can be named in place of their rows
var namedMaps = map[string][]string{
	"4x4":   gridworld.FrozenLake4x4,
	"10x10": gridworld.FrozenLake10x10,
}

// lakeMapHook decodes a named lake map or a comma separated list of lake
// rows into a slice of rows
func lakeMapHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type,
		data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf([]string{}) {
			return data, nil
		}

		raw := strings.TrimSpace(fmt.Sprint(data))
		if rows, ok := namedMaps[strings.ToLower(raw)]; ok {
			return rows, nil
		}
		if raw == "" {
			return []string{}, nil
		}

		rows := strings.Split(raw, ",")
		for i := range rows {
			rows[i] = strings.TrimSpace(rows[i])
		}
		return rows, nil
	}
}

// ReadConfig reads the experiment configuration. Defaults are overridden
// by the config file, which is overridden by TABULAR_ environment
// variables, which are overridden by flags.
func ReadConfig(v *viper.Viper) (experiment.Config, error) {
	defaults, err := yaml.Marshal(experiment.DefaultConfig())
	if err != nil {
		return experiment.Config{}, fmt.Errorf("readConfig: %v", err)
	}

	var values map[string]interface{}
	if err := yaml.Unmarshal(defaults, &values); err != nil {
		return experiment.Config{}, fmt.Errorf("readConfig: %v", err)
	}
	for key, value := range values {
		v.SetDefault(key, value)
	}

	if file := viper.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return experiment.Config{}, fmt.Errorf("readConfig: %v", err)
		}
	}

	// Set the prefix for vars so we get only the ones starting with TABULAR
	v.SetEnvPrefix("TABULAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg experiment.Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		lakeMapHook(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return experiment.Config{}, fmt.Errorf("readConfig: %v", err)
	}
	return cfg, nil
}

// NewLogger returns the logger configured by the persistent flags
func NewLogger() (*logrus.Logger, io.Closer, error) {
	logger := logging.NewLogger()
	if viper.GetBool("debug") {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Set formatter so both file and stdout format are equal
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: false,
		FullTimestamp:    true,
	})

	var outputs []io.Writer
	if !viper.GetBool("quiet") {
		outputs = append(outputs, os.Stderr)
	}

	var closer io.Closer = io.NopCloser(nil)
	if logfile := viper.GetString("logfile"); logfile != "" {
		o, err := os.OpenFile(logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			fs.ModePerm)
		if err != nil {
			return nil, nil, fmt.Errorf("newLogger: could not open %s for "+
				"logging to file: %v", logfile, err)
		}
		outputs = append(outputs, o)
		closer = o
	}

	logger.SetOutput(io.MultiWriter(outputs...))
	return logger, closer, nil
}
