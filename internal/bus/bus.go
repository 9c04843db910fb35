package bus

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
)

const SockName = "control.sock"
const PidName = "voxtype.pid"
const ProtoVer = "0.1"

// ~/.cache/voxtype/control.sock
func SockPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	hd := filepath.Join(dir, "voxtype")
	return filepath.Join(hd, SockName), nil
}

// ~/.cache/voxtype/voxtype.pid
func PidPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	hd := filepath.Join(dir, "voxtype")
	return filepath.Join(hd, PidName), nil
}

func Listen() (net.Listener, error) {
	sp, err := SockPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(sp), 0o700); err != nil {
		return nil, err
	}
	_ = os.Remove(sp) // stale socket from last run
	return net.Listen("unix", sp)
}

func Dial() (net.Conn, error) {
	sp, err := SockPath()
	if err != nil {
		return nil, err
	}
	return net.Dial("unix", sp)
}

func SendCommand(cmd byte) (string, error) {
	c, err := Dial()
	if err != nil {
		return "", err
	}
	defer c.Close()

	_, err = c.Write([]byte{cmd, '\n'})
	if err != nil {
		return "", err
	}

	resp, err := bufio.NewReader(c).ReadString('\n')
	return resp, err
}

// SendInject delivers text to the daemon for injection. The payload is
// quoted so newlines and tabs survive the line protocol.
func SendInject(text string) (string, error) {
	c, err := Dial()
	if err != nil {
		return "", err
	}
	defer c.Close()

	if _, err := fmt.Fprintf(c, "i%s\n", EncodePayload(text)); err != nil {
		return "", err
	}

	resp, err := bufio.NewReader(c).ReadString('\n')
	return resp, err
}

// EncodePayload quotes text for the line protocol
func EncodePayload(text string) string {
	return strconv.Quote(text)
}

// DecodePayload reverses EncodePayload
func DecodePayload(payload string) (string, error) {
	return strconv.Unquote(payload)
}

func CheckExistingDaemon() error {
	pidPath, err := PidPath()
	if err != nil {
		return err
	}

	pidData, err := os.ReadFile(pidPath)
	if os.IsNotExist(err) {
		return nil // no existing daemon
	}
	if err != nil {
		return err
	}

	pid, err := strconv.Atoi(string(pidData))
	if err != nil {
		return nil // invalid pid file, assume stale
	}

	// Check if process exists
	proc, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}

	// Signal 0 performs the permission checks without delivering anything
	if err := proc.Signal(syscall.Signal(0)); err != nil {
		return nil // process not alive, stale pid file
	}

	return fmt.Errorf("daemon already running with PID %d", pid)
}

func CreatePidFile() error {
	pidPath, err := PidPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(pidPath), 0o700); err != nil {
		return err
	}

	pid := os.Getpid()
	return os.WriteFile(pidPath, []byte(strconv.Itoa(pid)), 0o600)
}

func RemovePidFile() error {
	pidPath, err := PidPath()
	if err != nil {
		return err
	}
	return os.Remove(pidPath)
}
