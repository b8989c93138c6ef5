package config

const SERVER_YML = `
listener:
  port: 3000

sqlite:
  passPhrase: passphrase

# Leave 'file' empty to log to the console.
logging:
  file:
  maxSizeMb: 100
  maxBackups: 5
  maxAgeDays: 30
`
