package help

const QuickstartYAML = `# reserve-fetch Quick Start

credentials:
  flags: "--username / --password"
  env: "RESERVE_USERNAME / RESERVE_PASSWORD"
  config: "username / password in the file given by --config or RESERVE_CONFIG"

commands:
  fetch: |
    reserve-fetch fetch rpc-055

  fetch_yaml_to_file: |
    reserve-fetch fetch --format yaml --output out/rpc-055.yaml rpc-055

  other_site: |
    reserve-fetch fetch --site scp-sandbox-3 --namespace draft my-page

  parse_offline: |
    cat page.txt | reserve-fetch parse
    reserve-fetch parse --indent 0 page.txt

  history: |
    reserve-fetch history
    reserve-fetch history --limit 5
    reserve-fetch history --page rpc-055

output:
  content: "every 'key: value' line of the page, values kept as strings"
  _page_info: "fullname, name, title, category, created_at, created_by, size"
  _readable: "date-from, date-to, created_at, updated_at as YYYY-MM-DD HH:MM:SS local time"

config_example: |
  site: rpcsandboxcn
  namespace: reserve
  output:
    format: json
    indent: 2
  log:
    level: info
    file: logs/reserve-fetch.log
  history:
    enabled: true

exit_codes:
  - "0: document written"
  - "1: no result (login failed, page missing, page empty)"
  - "2: bad configuration or missing credentials"
`
