package banner

import (
	"fmt"
	"runtime"
)

const banner = `
   _____ _                 _          ____  _____
  / ____(_)               | |        / __ \|  __ \
 | (___  _ _ __ ___  _ __ | |_   _  | |  | | |__) |
  \___ \| | '_ ' _ \| '_ \| | | | | | |  | |  _  /
  ____) | | | | | | | |_) | | |_| | | |__| | | \ \
 |_____/|_|_| |_| |_| .__/|_|\__, |  \___\_\_|  \_\
                    | |       __/ |
                    |_|      |___/
`

// Print writes the startup banner with version and build info.
func Print(version, commitHash, buildTime string) {
	fmt.Print(banner)
	fmt.Printf("  Version:     %s\n", version)

	if commitHash != "" && commitHash != "unknown" {
		if len(commitHash) > 7 {
			commitHash = commitHash[:7]
		}
		fmt.Printf("  Commit:      %s\n", commitHash)
	}

	if buildTime != "" && buildTime != "unknown" {
		fmt.Printf("  Build Time:  %s\n", buildTime)
	}

	fmt.Printf("  Go Version:  %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
}
