package domain

import (
	"maps"
	"slices"
	"strings"
)

// PresetFlags selects a bundled set of JVM flags.
type PresetFlags string

const (
	// PresetNone adds no flags.
	PresetNone PresetFlags = "none"
	// PresetAikars adds Aikar's G1GC tuning flags for game servers.
	PresetAikars PresetFlags = "aikars"
	// PresetProxy adds the flags recommended for proxies.
	PresetProxy PresetFlags = "proxy"
)

const aikarsFlags = `-XX:+UseG1GC -XX:+ParallelRefProcEnabled -XX:MaxGCPauseMillis=200
-XX:+UnlockExperimentalVMOptions -XX:+DisableExplicitGC -XX:+AlwaysPreTouch
-XX:G1NewSizePercent=30 -XX:G1MaxNewSizePercent=40 -XX:G1HeapRegionSize=8M
-XX:G1ReservePercent=20 -XX:G1HeapWastePercent=5 -XX:G1MixedGCCountTarget=4
-XX:InitiatingHeapOccupancyPercent=15 -XX:G1MixedGCLiveThresholdPercent=90
-XX:G1RSetUpdatingPauseTimePercent=5 -XX:SurvivorRatio=32 -XX:+PerfDisableSharedMem
-XX:MaxTenuringThreshold=1 -Dusing.aikars.flags=https://mcflags.emc.gs -Daikars.new.flags=true`

const proxyFlags = `-XX:+UseG1GC -XX:G1HeapRegionSize=4M -XX:+UnlockExperimentalVMOptions
-XX:+ParallelRefProcEnabled -XX:+AlwaysPreTouch -XX:MaxInlineLevel=15`

// Flags returns the JVM flags of the preset.
func (p PresetFlags) Flags() []string {
	switch p {
	case PresetAikars:
		return strings.Fields(aikarsFlags)
	case PresetProxy:
		return strings.Fields(proxyFlags)
	default:
		return nil
	}
}

// EnvLookup reads an environment variable. os.LookupEnv satisfies it.
type EnvLookup func(key string) (string, bool)

// Launcher holds the settings used to generate start scripts.
type Launcher struct {
	EulaArgs    bool
	NoGUI       bool
	PresetFlags PresetFlags
	Disable     bool
	JVMArgs     string
	GameArgs    string
	Memory      string
	Properties  map[string]string
	Prelaunch   []string
	Postlaunch  []string
	JavaVersion string
}

// DefaultLauncher returns the launcher settings used when the server file has none.
func DefaultLauncher() Launcher {
	return Launcher{
		EulaArgs:    true,
		NoGUI:       true,
		PresetFlags: PresetNone,
	}
}

// Java returns the java binary to invoke.
// JAVA_<version>_BIN wins when a java version is pinned, then JAVA_BIN, then "java".
func (l Launcher) Java(env EnvLookup) string {
	if l.JavaVersion != "" {
		if bin, ok := env("JAVA_" + l.JavaVersion + "_BIN"); ok && bin != "" {
			return bin
		}
	}
	if bin, ok := env("JAVA_BIN"); ok && bin != "" {
		return bin
	}
	return "java"
}

// Arguments builds the java argument list for starting jar.
func (l Launcher) Arguments(jar string, env EnvLookup) []string {
	args := strings.Fields(l.JVMArgs)

	memory := l.Memory
	if m, ok := env("MC_MEMORY"); ok && m != "" {
		memory = m
	}
	if memory != "" {
		args = append(args, "-Xms"+memory, "-Xmx"+memory)
	}

	args = append(args, l.PresetFlags.Flags()...)

	if l.EulaArgs {
		args = append(args, "-Dcom.mojang.eula.agree=true")
	}

	for _, key := range slices.Sorted(maps.Keys(l.Properties)) {
		value := l.Properties[key]
		if strings.ContainsAny(value, " \t") {
			value = `"` + value + `"`
		}
		args = append(args, "-D"+key+"="+value)
	}

	args = append(args, "-jar", jar)

	if l.NoGUI && l.PresetFlags != PresetProxy {
		args = append(args, "--nogui")
	}

	args = append(args, strings.Fields(l.GameArgs)...)

	return args
}

// LinuxScript renders start.sh.
func (l Launcher) LinuxScript(jar string, env EnvLookup) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n# generated by mcsmith\n")
	for _, cmd := range l.Prelaunch {
		b.WriteString(cmd + "\n")
	}
	b.WriteString(l.Java(env) + " " + strings.Join(l.Arguments(jar, env), " ") + " \"$@\"\n")
	for _, cmd := range l.Postlaunch {
		b.WriteString(cmd + "\n")
	}
	return b.String()
}

// WindowsScript renders start.bat.
func (l Launcher) WindowsScript(serverName, jar string, env EnvLookup) string {
	var b strings.Builder
	b.WriteString("@echo off\r\n:: generated by mcsmith\r\n")
	b.WriteString("title " + serverName + "\r\n")
	for _, cmd := range l.Prelaunch {
		b.WriteString(cmd + "\r\n")
	}
	b.WriteString(l.Java(env) + " " + strings.Join(l.Arguments(jar, env), " ") + " %*\r\n")
	for _, cmd := range l.Postlaunch {
		b.WriteString(cmd + "\r\n")
	}
	return b.String()
}
