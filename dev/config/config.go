package config

// DEV_YML is written to ./.govnotify.dev.yaml the first time --dev is used
const DEV_YML = `
notifi:
  env: devnet
  dappAddress: solanarealmsdao

organization:
  name: "Dev DAO"
  address: "DPiH3H3c7t47BMxqTxLsuPQpEC6Kne8GA9VXbxpnZxFE"

wallet:
  keyFile: "./dev/wallet.jwk"
  sessionFile: "./dev/session.json"

twilio:
  accountSid:
  authToken:

watch:
  interval: 30s
  timeZone: "America/Toronto"
`
