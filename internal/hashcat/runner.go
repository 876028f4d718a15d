package hashcat

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/doomedramen/autopwn-sub010/pkg/debug"
)

// wpaHashMode is the hashcat hash mode for WPA/WPA2 (hcxpcapngtool output)
const wpaHashMode = "22000"

// Credential is one recovered network identifier / password pair
type Credential struct {
	ESSID    string
	Password string
}

// Update is one event emitted while an attack runs. Every engine output
// line produces an Update; lines that parse as status additionally carry a
// snapshot, and recovered credentials carry a Credential.
type Update struct {
	Line    string
	Status  *StatusUpdate
	Cracked *Credential
}

// Outcome is the structured result of one attack run. Success means at
// least one credential was recovered. Err is set only for tool failures
// (launch error or non-zero exit); an exhausted run with no matches is
// Success=false, Err=nil.
type Outcome struct {
	Success bool
	Err     error
}

// Runner launches the cracking engine against one hash file and one
// dictionary at a time
type Runner struct {
	binary      string
	device      string // optional -D device-class hint
	statusTimer int
}

// NewRunner creates a runner for the given engine binary. device may be
// empty; statusTimer is the seconds between engine status lines.
func NewRunner(binary, device string, statusTimer int) *Runner {
	if statusTimer <= 0 {
		statusTimer = 5
	}
	return &Runner{binary: binary, device: device, statusTimer: statusTimer}
}

// Attack is a handle on one running attack. The caller drains Updates()
// until it closes, then reads Outcome(). Stop() kills the engine process at
// any time.
type Attack struct {
	updates chan Update
	done    chan struct{}
	outcome Outcome
	cancel  context.CancelFunc
}

// Updates returns the event stream. The channel is closed once the run
// finishes; events arrive in engine emission order.
func (a *Attack) Updates() <-chan Update {
	return a.updates
}

// Outcome blocks until the run has finished and returns its result
func (a *Attack) Outcome() Outcome {
	<-a.done
	return a.outcome
}

// Stop requests termination of the engine process. The run then finishes
// with Success=false and no error.
func (a *Attack) Stop() {
	a.cancel()
}

func (a *Attack) emit(u Update) {
	a.updates <- u
}

func (a *Attack) finish(outcome Outcome) {
	a.outcome = outcome
	close(a.updates)
	close(a.done)
}

// Start begins an attack on hashFile with the given dictionary. It never
// fails synchronously; launch errors surface through the Outcome.
func (r *Runner) Start(ctx context.Context, hashFile, dictionary string) *Attack {
	ctx, cancel := context.WithCancel(ctx)
	attack := &Attack{
		updates: make(chan Update, 64),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	go r.run(ctx, attack, hashFile, dictionary)
	return attack
}

func (r *Runner) run(ctx context.Context, attack *Attack, hashFile, dictionary string) {
	// Potfile pre-check: previously recovered credentials short-circuit the
	// whole run without launching the main attack.
	cached, err := r.PotfileCheck(ctx, hashFile)
	if err != nil {
		// Not fatal; a missing potfile capability must not block the attack
		debug.Warning("Potfile pre-check failed for %s: %v", hashFile, err)
		attack.emit(Update{Line: "potfile pre-check failed: " + err.Error()})
	} else if len(cached) > 0 {
		debug.Info("Potfile pre-check recovered %d credential(s) for %s", len(cached), hashFile)
		for i := range cached {
			attack.emit(Update{Line: "potfile hit: " + cached[i].ESSID, Cracked: &cached[i]})
		}
		attack.finish(Outcome{Success: true})
		return
	}

	outFile := hashFile + ".cracked"
	// A stale outfile from an earlier run must not be read back as fresh
	// recoveries after a no-match exit
	if err := os.Remove(outFile); err != nil && !os.IsNotExist(err) {
		debug.Warning("Failed to remove stale outfile %s: %v", outFile, err)
	}

	args := []string{
		"-m", wpaHashMode,
		"-a", "0",
		"--status",
		"--status-timer", strconv.Itoa(r.statusTimer),
		"--outfile", outFile,
	}
	if r.device != "" {
		args = append(args, "-D", r.device)
	}
	args = append(args, hashFile, dictionary)

	debug.Debug("Launching engine: %s %s", r.binary, strings.Join(args, " "))

	cmd := exec.Command(r.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		attack.finish(Outcome{Err: fmt.Errorf("failed to open engine stdout: %w", err)})
		return
	}

	if err := cmd.Start(); err != nil {
		attack.finish(Outcome{Err: fmt.Errorf("failed to launch engine: %w", err)})
		return
	}

	// Kill the child on stop request or caller cancellation
	killed := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			if cmd.Process != nil {
				cmd.Process.Kill()
			}
		case <-killed:
		}
	}()

	// Drain stdout before detecting exit so status lines keep emission order
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		update := Update{Line: line}
		if status, ok := ParseStatusLine(line); ok {
			update.Status = status
		}
		attack.emit(update)
	}

	waitErr := cmd.Wait()
	close(killed)

	if ctx.Err() != nil {
		// Externally stopped; not a tool failure
		debug.Info("Engine run for %s stopped", hashFile)
		attack.finish(Outcome{})
		return
	}

	if waitErr != nil {
		errText := strings.TrimSpace(stderr.String())
		if errText == "" {
			errText = waitErr.Error()
		}
		attack.finish(Outcome{Err: fmt.Errorf("engine failed: %s", errText)})
		return
	}

	// Exit 0: the run completed. A missing or empty output file means the
	// dictionary was exhausted without a match.
	cracked, err := readOutfile(outFile)
	if err != nil || len(cracked) == 0 {
		attack.finish(Outcome{})
		return
	}

	for i := range cracked {
		attack.emit(Update{Line: "cracked: " + cracked[i].ESSID, Cracked: &cracked[i]})
	}
	attack.finish(Outcome{Success: true})
}

// PotfileCheck asks the engine to list previously recovered credentials for
// the hash file (no dictionary required). The same hash file and potfile
// contents always yield the same recovered set.
func (r *Runner) PotfileCheck(ctx context.Context, hashFile string) ([]Credential, error) {
	cmd := exec.CommandContext(ctx, r.binary, "-m", wpaHashMode, "--show", hashFile)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("potfile listing failed: %w", err)
	}

	var creds []Credential
	for _, line := range strings.Split(string(out), "\n") {
		if cred, ok := ParsePotfileLine(strings.TrimSpace(line)); ok {
			creds = append(creds, *cred)
		}
	}

	return creds, nil
}

// ParsePotfileLine parses one row of the engine's potfile listing:
// hash:field:field:identifier:credential... with at least 5 colon-delimited
// fields. The credential is the join of every field after the identifier,
// so passwords containing colons survive intact.
func ParsePotfileLine(line string) (*Credential, bool) {
	if line == "" {
		return nil, false
	}

	fields := strings.Split(line, ":")
	if len(fields) < 5 {
		return nil, false
	}

	return &Credential{
		ESSID:    fields[3],
		Password: strings.Join(fields[4:], ":"),
	}, true
}

// ParseOutfileLine parses one line of the engine's cracked-output file. The
// last field is the credential and the field before it the network
// identifier; a line with fewer than two fields is still kept as a
// credential with identifier "Unknown" rather than dropped.
func ParseOutfileLine(line string) Credential {
	fields := strings.Split(line, ":")
	if len(fields) < 2 {
		return Credential{ESSID: "Unknown", Password: line}
	}

	return Credential{
		ESSID:    fields[len(fields)-2],
		Password: fields[len(fields)-1],
	}
}

func readOutfile(path string) ([]Credential, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var creds []Credential
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		creds = append(creds, ParseOutfileLine(line))
	}

	return creds, scanner.Err()
}
